package domain

// CommissionInput is the create/edit commission form.
type CommissionInput struct {
	Title        string `form:"title" json:"title" validate:"max=120"`
	Description  string `form:"description" json:"description" validate:"required,max=2000"`
	TotalPrice   int64  `form:"total_price" json:"total_price" validate:"gte=0,lte=1000000"`
	PublicStatus string `form:"public_status" json:"public_status" validate:"required,oneof=pending in_progress completed"`
	Image        string `form:"image" json:"image" validate:"omitempty,max=500,http_url|startswith=/"`
}

// ArtistInput is the artist profile edit form.
type ArtistInput struct {
	PortfolioLink string `form:"portfolio_link" json:"portfolio_link" validate:"omitempty,http_url,max=300"`
	Bio           string `form:"bio" json:"bio" validate:"max=1000"`
}

type RegisterInput struct {
	Name     string `form:"name" validate:"required,max=60"`
	Username string `form:"username" validate:"omitempty,username"`
	Email    string `form:"email" validate:"required,email,max=50"`
	Password string `form:"password" validate:"required"`
}

type MessageInput struct {
	Body string `form:"body" json:"body" validate:"required,max=2000"`
}
