package apperrors

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/plume/internal/common"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Domain is the error domain attached to gRPC error details.
const Domain = "plume.feathers"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message
	Metadata map[string]string // Identifiers of the entities involved
	Cause    error             // Wrapped underlying error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Kind is shorthand for e.Code.Kind().
func (e *Error) Kind() Kind {
	return e.Code.Kind()
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or
// CodeUnknown when there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// KindOf returns the kind of err; errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	return CodeOf(err).Kind()
}

// IsKind reports whether err carries a code of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsRetryable reports whether the caller may retry the operation that
// produced err. Domain rule violations are never retryable.
func IsRetryable(err error) bool {
	return IsKind(err, KindTransient)
}

// FromStorage translates a repository error. Not-found becomes notFound
// (when non-empty), transient failures become CodeTransientFailure and
// everything else is internal. Domain errors pass through untouched.
func FromStorage(err error, notFound Code, message string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case notFound != "" && errors.Is(err, common.ErrorNotFound):
		return Wrap(notFound, message, err)
	case errors.Is(err, common.ErrorTransient):
		return Wrap(CodeTransientFailure, "storage temporarily unavailable", err)
	default:
		return Wrap(CodeInternal, message, err)
	}
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func PoemNotFound(poemID int64) *Error {
	return WithMetadata(CodePoemNotFound, fmt.Sprintf("poem %d not found", poemID), map[string]string{"poem_id": id(poemID)})
}

func FeatherVoteNotFound(voteID int64) *Error {
	return WithMetadata(CodeFeatherVoteNotFound, fmt.Sprintf("feather vote %d not found", voteID), map[string]string{"vote_id": id(voteID)})
}

func UserNotFound(userID int64) *Error {
	return WithMetadata(CodeUserNotFound, fmt.Sprintf("user %d not found", userID), map[string]string{"user_id": id(userID)})
}

func TotemNotFound(totemID int64) *Error {
	return WithMetadata(CodeTotemNotFound, fmt.Sprintf("totem %d not found", totemID), map[string]string{"totem_id": id(totemID)})
}

func RewardNotFound(code string) *Error {
	return WithMetadata(CodeRewardNotFound, fmt.Sprintf("reward %s not found in catalog", code), map[string]string{"reward_code": code})
}

func VoteAlreadyCast(voterID, poemID int64) *Error {
	return WithMetadata(CodeVoteAlreadyCast, "a feather was already cast on this poem",
		map[string]string{"voter_id": id(voterID), "poem_id": id(poemID)})
}

func Forbidden(action string) *Error {
	return WithMetadata(CodeForbidden, "not allowed to "+action, map[string]string{"action": action})
}

func CannotPublishPoem(poemID int64) *Error {
	return WithMetadata(CodeCannotPublishPoem, "poem is already published", map[string]string{"poem_id": id(poemID)})
}

func CannotPublishWithoutTotem(poemID, authorID int64) *Error {
	return WithMetadata(CodeCannotPublishWithoutTotem, "author must choose a totem before publishing",
		map[string]string{"poem_id": id(poemID), "author_id": id(authorID)})
}

func CannotUpdatePoem(poemID int64, votes int) *Error {
	return WithMetadata(CodeCannotUpdatePoem, "poem already received feathers",
		map[string]string{"poem_id": id(poemID), "votes": strconv.Itoa(votes)})
}

func CannotDeletePoemWithVotes(poemID int64, votes int) *Error {
	return WithMetadata(CodeCannotDeletePoemWithVotes, "poem already received feathers",
		map[string]string{"poem_id": id(poemID), "votes": strconv.Itoa(votes)})
}

func CannotDeleteUserWithLinks(userID int64) *Error {
	return WithMetadata(CodeCannotDeleteUserWithLinks, "user still has poems or feathers",
		map[string]string{"user_id": id(userID)})
}

func CannotVoteOwnPoem(voterID, poemID int64) *Error {
	return WithMetadata(CodeCannotVoteOwnPoem, "authors cannot cast feathers on their own poems",
		map[string]string{"voter_id": id(voterID), "poem_id": id(poemID)})
}

func EmailAlreadyUsed(email string) *Error {
	return WithMetadata(CodeEmailAlreadyUsed, "email is already registered", map[string]string{"email": email})
}

func TotemAlreadyChosen(userID int64) *Error {
	return WithMetadata(CodeTotemAlreadyChosen, "totem was already chosen", map[string]string{"user_id": id(userID)})
}

func UserLocked(userID int64) *Error {
	return WithMetadata(CodeUserLocked, "account is locked", map[string]string{"user_id": id(userID)})
}

func Validation(message string) *Error {
	return New(CodeValidationFailed, message)
}

// ToGRPCStatus converts e to a gRPC status carrying an ErrorInfo detail
// whose Reason is the stable code.
func (e *Error) ToGRPCStatus() error {
	st := status.New(e.Code.GRPCCode(), e.Message)
	withDetails, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   string(e.Code),
		Domain:   Domain,
		Metadata: e.Metadata,
	})
	if err != nil {
		return st.Err()
	}
	return withDetails.Err()
}

// FromGRPCStatus rebuilds a domain error from a status produced by
// ToGRPCStatus. Errors without an ErrorInfo detail are returned as is.
func FromGRPCStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.Domain == Domain {
			return &Error{Code: Code(info.Reason), Message: st.Message(), Metadata: info.Metadata}
		}
	}
	return err
}
