// Package apperrors provides the typed domain failures raised by the poem,
// vote, reward and user services. Every failure carries a stable Code; the
// Code determines its Kind, and the Kind alone decides how a transport
// renders it.
package apperrors

import "google.golang.org/grpc/codes"

// Kind groups codes into the categories callers branch on.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindCannotPublish     Kind = "cannot_publish"
	KindCannotUpdate      Kind = "cannot_update"
	KindCannotDelete      Kind = "cannot_delete"
	KindCannotVoteOwnPoem Kind = "cannot_vote_own_poem"
	KindForbidden         Kind = "forbidden"
	KindValidation        Kind = "validation"
	KindUnauthorized      Kind = "unauthorized"
	KindTransient         Kind = "transient"
	KindInternal          Kind = "internal"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown Code = "UNKNOWN"

	// Not found
	CodePoemNotFound        Code = "POEM_NOT_FOUND"
	CodeFeatherVoteNotFound Code = "FEATHER_VOTE_NOT_FOUND"
	CodeUserNotFound        Code = "USER_NOT_FOUND"
	CodeRewardNotFound      Code = "REWARD_NOT_FOUND"
	CodeTotemNotFound       Code = "TOTEM_NOT_FOUND"

	// Conflicts
	CodeEmailAlreadyUsed     Code = "EMAIL_ALREADY_USED"
	CodeVoteAlreadyCast      Code = "VOTE_ALREADY_CAST"
	CodeRewardAlreadyGranted Code = "REWARD_ALREADY_GRANTED"
	CodeTotemAlreadyChosen   Code = "TOTEM_ALREADY_CHOSEN"
	CodeTotemNameTaken       Code = "TOTEM_NAME_TAKEN"

	// Lifecycle preconditions
	CodeCannotPublishPoem         Code = "CANNOT_PUBLISH_POEM"
	CodeCannotPublishWithoutTotem Code = "CANNOT_PUBLISH_WITHOUT_TOTEM"
	CodeCannotUpdatePoem          Code = "CANNOT_UPDATE_POEM"
	CodeCannotDeletePoemWithVotes Code = "CANNOT_DELETE_POEM_WITH_VOTES"
	CodeCannotDeleteUserWithLinks Code = "CANNOT_DELETE_USER_WITH_LINKS"
	CodeCannotVoteOwnPoem         Code = "CANNOT_VOTE_OWN_POEM"

	// Authorization
	CodeForbidden  Code = "FORBIDDEN"
	CodeUserLocked Code = "USER_LOCKED"

	// Input
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeEmptyUpdate      Code = "EMPTY_UPDATE"

	// Authentication
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeAccountLocked      Code = "ACCOUNT_LOCKED"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"

	// Infrastructure
	CodeTransientFailure Code = "TRANSIENT_FAILURE"
	CodeInternal         Code = "INTERNAL"
)

// Kind returns the category of the code.
func (c Code) Kind() Kind {
	switch c {
	case CodePoemNotFound, CodeFeatherVoteNotFound, CodeUserNotFound, CodeRewardNotFound, CodeTotemNotFound:
		return KindNotFound
	case CodeEmailAlreadyUsed, CodeVoteAlreadyCast, CodeRewardAlreadyGranted, CodeTotemAlreadyChosen, CodeTotemNameTaken:
		return KindConflict
	case CodeCannotPublishPoem, CodeCannotPublishWithoutTotem:
		return KindCannotPublish
	case CodeCannotUpdatePoem:
		return KindCannotUpdate
	case CodeCannotDeletePoemWithVotes, CodeCannotDeleteUserWithLinks:
		return KindCannotDelete
	case CodeCannotVoteOwnPoem:
		return KindCannotVoteOwnPoem
	case CodeForbidden, CodeUserLocked:
		return KindForbidden
	case CodeValidationFailed, CodeEmptyUpdate:
		return KindValidation
	case CodeInvalidCredentials, CodeAccountLocked, CodeUnauthenticated, CodeTokenExpired:
		return KindUnauthorized
	case CodeTransientFailure:
		return KindTransient
	default:
		return KindInternal
	}
}

// GRPCCode maps the code's kind to a gRPC status code.
func (c Code) GRPCCode() codes.Code {
	switch c.Kind() {
	case KindNotFound:
		return codes.NotFound
	case KindConflict:
		return codes.AlreadyExists
	case KindCannotPublish, KindCannotUpdate, KindCannotDelete, KindCannotVoteOwnPoem:
		return codes.FailedPrecondition
	case KindForbidden:
		return codes.PermissionDenied
	case KindValidation:
		return codes.InvalidArgument
	case KindUnauthorized:
		return codes.Unauthenticated
	case KindTransient:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
