package dbx

// LockMode selects the row lock a repository read takes inside a
// transaction.
type LockMode int

const (
	NoLock LockMode = iota
	LockForShare
	LockForUpdate
)

// Clause returns the SQL suffix for the mode, with a leading space, or an
// empty string for NoLock.
func (m LockMode) Clause() string {
	switch m {
	case LockForShare:
		return " FOR SHARE"
	case LockForUpdate:
		return " FOR UPDATE"
	default:
		return ""
	}
}
