package card

import "time"

type Card struct {
	ID          int64
	Name        string
	Title       string
	Description string
	Phone       string
	Email       string
	Website     string
	City        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateCardInput struct {
	Name        string
	Title       string
	Description string
	Phone       string
	Email       string
	Website     string
	City        string
}

// Patch is a partial update. Nil fields are left untouched; the field set is
// fixed here, so callers cannot reach id, is_active or timestamps through it.
type Patch struct {
	Name        *string
	Title       *string
	Description *string
	Phone       *string
	Email       *string
	Website     *string
	City        *string
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Title == nil && p.Description == nil &&
		p.Phone == nil && p.Email == nil && p.Website == nil && p.City == nil
}

// Apply copies the present fields onto c.
func (p Patch) Apply(c *Card) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Name, p.Name)
	set(&c.Title, p.Title)
	set(&c.Description, p.Description)
	set(&c.Phone, p.Phone)
	set(&c.Email, p.Email)
	set(&c.Website, p.Website)
	set(&c.City, p.City)
}
