package models

import (
	"time"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

// NoLogo is reported as client_logo for clients that never uploaded a logo.
// It is never stored in the database and never passed to the blob store.
const NoLogo = "no-image.jpg"

type Client struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:250;not null" json:"name"`
	Slug         string `gorm:"size:100;not null;uniqueIndex:idx_clients_slug_active,where:deleted_at IS NULL" json:"slug"`
	IsProject    bool   `gorm:"not null" json:"is_project"`
	SelfCapture  bool   `gorm:"not null" json:"self_capture"`
	ClientPrefix string `gorm:"size:4;not null" json:"client_prefix"`

	// LogoPath is the blob store key of the uploaded logo, nil when there is none.
	LogoPath *string `gorm:"column:client_logo;size:255" json:"-"`

	Address     *string `gorm:"type:text" json:"address"`
	PhoneNumber *string `gorm:"size:50" json:"phone_number"`
	City        *string `gorm:"size:50" json:"city"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// HasLogo reports whether the client references a stored logo blob.
func (c *Client) HasLogo() bool {
	return c.LogoPath != nil && *c.LogoPath != ""
}

// Logo returns the logo path, or NoLogo.
func (c *Client) Logo() string {
	if !c.HasLogo() {
		return NoLogo
	}
	return *c.LogoPath
}

// SetLogo stores path as the logo reference. Empty and NoLogo clear it.
func (c *Client) SetLogo(path string) {
	if path == "" || path == NoLogo {
		c.LogoPath = nil
		return
	}
	c.LogoPath = &path
}

// clientFields drops the methods of Client so the codec below does not recurse.
type clientFields Client

type clientLogo struct {
	ClientLogo string `json:"client_logo"`
}

func (c Client) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		clientFields
		clientLogo
	}{clientFields(c), clientLogo{ClientLogo: c.Logo()}})
}

func (c *Client) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*clientFields)(c)); err != nil {
		return err
	}
	var logo clientLogo
	if err := json.Unmarshal(data, &logo); err != nil {
		return err
	}
	c.SetLogo(logo.ClientLogo)
	return nil
}
