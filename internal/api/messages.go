package api

import "time"

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email,omitempty"`
	Pseudo    string    `json:"pseudo"`
	Role      string    `json:"role"`
	TotemID   *int64    `json:"totem_id,omitempty"`
	Locked    bool      `json:"locked,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Totem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PictureURL  string `json:"picture_url,omitempty"`
}

type Poem struct {
	ID          int64      `json:"id"`
	AuthorID    int64      `json:"author_id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Mood        string     `json:"mood"`
	Status      string     `json:"status"`
	Symbol      string     `json:"symbol"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type Vote struct {
	ID        int64     `json:"id"`
	VoterID   int64     `json:"voter_id"`
	PoemID    int64     `json:"poem_id"`
	Weight    string    `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
}

type Tally struct {
	Bronze int `json:"bronze"`
	Silver int `json:"silver"`
	Gold   int `json:"gold"`
}

type Reward struct {
	Code      string     `json:"code"`
	Label     string     `json:"label"`
	GrantedAt *time.Time `json:"granted_at,omitempty"`
}

type LoreEntry struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type Page struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

type Empty struct{}

// Accounts

type RegisterRequest struct {
	Email    string `json:"email"`
	Pseudo   string `json:"pseudo"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// GetUserRequest with a zero UserID targets the caller.
type GetUserRequest struct {
	UserID int64 `json:"user_id,omitempty"`
}

type UserResponse struct {
	User *User `json:"user"`
}

type ChooseTotemRequest struct {
	TotemID int64 `json:"totem_id"`
}

type UserIDRequest struct {
	UserID int64 `json:"user_id"`
}

type ListRewardsResponse struct {
	Rewards []*Reward `json:"rewards"`
}

// Totems

type ListTotemsResponse struct {
	Totems []*Totem `json:"totems"`
}

type GetTotemRequest struct {
	TotemID int64 `json:"totem_id"`
}

type TotemResponse struct {
	Totem *Totem `json:"totem"`
}

type CreateTotemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CreateTotemResponse struct {
	Totem     *Totem `json:"totem"`
	UploadURL string `json:"upload_url"`
}

// Poems

type CreateDraftRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Mood    string `json:"mood"`
}

type PoemIDRequest struct {
	PoemID int64 `json:"poem_id"`
}

// UpdatePoemRequest carries only the fields to change.
type UpdatePoemRequest struct {
	PoemID  int64   `json:"poem_id"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Mood    *string `json:"mood,omitempty"`
}

type PoemResponse struct {
	Poem *Poem `json:"poem"`
}

// ListPoemsRequest lists one author's poems when AuthorID is set, every
// published poem otherwise.
type ListPoemsRequest struct {
	AuthorID int64 `json:"author_id,omitempty"`
	Page     Page  `json:"page"`
}

type ListPoemsResponse struct {
	Poems []*Poem `json:"poems"`
}

// Feathers

type CastVoteRequest struct {
	PoemID int64  `json:"poem_id"`
	Weight string `json:"weight"`
}

type CastVoteResponse struct {
	Vote     *Vote     `json:"vote"`
	Tally    Tally     `json:"tally"`
	Symbol   string    `json:"symbol"`
	Unlocked []*Reward `json:"unlocked,omitempty"`
}

type WithdrawVoteRequest struct {
	VoteID int64 `json:"vote_id"`
}

type TallyResponse struct {
	Tally  Tally  `json:"tally"`
	Symbol string `json:"symbol"`
}

// ListVotesRequest lists the feathers on PoemID, or those cast by VoterID.
// A request with neither lists the caller's feathers.
type ListVotesRequest struct {
	PoemID  int64 `json:"poem_id,omitempty"`
	VoterID int64 `json:"voter_id,omitempty"`
	Page    Page  `json:"page"`
}

type ListVotesResponse struct {
	Votes []*Vote `json:"votes"`
}

// Lore

type LoreRequest struct {
	Kind string `json:"kind"`
}

type LoreResponse struct {
	Entries []*LoreEntry `json:"entries"`
}
