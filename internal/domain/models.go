package domain

type Service struct {
	ID          int64  `db:"id" json:"id"`
	ArtistID    int64  `db:"artist_id" json:"-"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Price       int64  `db:"price" json:"price"`
	ServiceType string `db:"service_type" json:"service_type"`
}

type Artist struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	User             User      `db:"user" json:"user"`
	PortfolioLink    string    `db:"portfolio_link" json:"portfolio_link,omitempty"`
	IsVerified       bool      `db:"is_verified" json:"is_verified"`
	Rating           float64   `db:"rating" json:"rating"`
	Services         []Service `db:"-" json:"services"`
	CommissionsCount int       `db:"commissions_count" json:"commissions_count"`
	ServicesCount    int       `db:"services_count" json:"services_count"`
}

type Commission struct {
	ID           int64  `db:"id" json:"id"`
	Title        string `db:"title" json:"title,omitempty"`
	Description  string `db:"description" json:"description"`
	User         User   `db:"user" json:"user"`
	UserID       int64  `db:"user_id" json:"user_id"`
	TotalPrice   int64  `db:"total_price" json:"total_price"`
	PublicStatus string `db:"public_status" json:"public_status"`
	Image        string `db:"image" json:"image,omitempty"`
	LovedCount   int    `db:"loved_count" json:"loved_count"`
	// LovedByViewer is relative to the viewer the commission was loaded for.
	LovedByViewer bool `db:"loved_by_viewer" json:"loved_by_viewer"`
}

// OrderCommission is the slice of a commission an order row carries.
type OrderCommission struct {
	Title string `db:"title" json:"title,omitempty"`
	User  User   `db:"user" json:"user"`
}

type Order struct {
	ID           int64           `db:"id" json:"id"`
	CommissionID int64           `db:"commission_id" json:"commission_id"`
	Commission   OrderCommission `db:"commission" json:"commission"`
	BuyerID      int64           `db:"buyer_id" json:"buyer_id"`
	TotalPrice   int64           `db:"total_price" json:"total_price"`
	Status       string          `db:"status" json:"status"`
	CreatedAt    string          `db:"created_at" json:"created_at"` // RFC3339
}

// ChatSummary is one conversation in the viewer's inbox. ID is the
// counterpart's user id.
type ChatSummary struct {
	ID              int64  `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	Username        string `db:"username" json:"username,omitempty"`
	ProfilePicture  string `db:"profile_picture" json:"profile_picture,omitempty"`
	LastMessage     string `db:"last_message" json:"lastMessage"`
	LastMessageTime string `db:"-" json:"lastMessageTime"`
}

type Message struct {
	ID          int64  `db:"id" json:"id"`
	SenderID    int64  `db:"sender_id" json:"sender_id"`
	RecipientID int64  `db:"recipient_id" json:"recipient_id"`
	Body        string `db:"body" json:"body"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}

// Thread is a conversation between the viewer and one counterpart.
type Thread struct {
	With     User      `json:"with"`
	Messages []Message `json:"messages"`
}

type LoveResult struct {
	CommissionID int64 `json:"commission_id"`
	Loved        bool  `json:"loved"`
	Count        int   `json:"loved_count"`
}

// Profile is a public user page: the user, their artist profile if any,
// and their commissions.
type Profile struct {
	User        User         `json:"user"`
	ArtistID    int64        `json:"artist_id,omitempty"`
	Commissions []Commission `json:"commissions"`
}
