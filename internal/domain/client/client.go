package client

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/fleetrent/service-reservation/internal/domain"
)

// validate applies the same email rule as the request binding tags.
var validate = validator.New()

const (
	minNameLength  = 2
	minPhoneDigits = 10
)

// Client is someone who rents vehicles.
type Client struct {
	id        int64
	lastName  string
	firstName string
	email     string
	phone     string
	address   string
	createdAt time.Time
	updatedAt time.Time
}

// NewClient creates a client with validated contact details and no id.
func NewClient(lastName, firstName, email, phone, address string) (*Client, error) {
	c := &Client{}
	if err := c.setName(lastName, firstName); err != nil {
		return nil, err
	}
	if err := c.setContact(email, phone); err != nil {
		return nil, err
	}
	c.address = strings.TrimSpace(address)

	now := time.Now().UTC()
	c.createdAt = now
	c.updatedAt = now
	return c, nil
}

// Reconstruct rebuilds a Client from persistence data (no validation).
func Reconstruct(id int64, lastName, firstName, email, phone, address string, createdAt, updatedAt time.Time) *Client {
	return &Client{
		id:        id,
		lastName:  lastName,
		firstName: firstName,
		email:     email,
		phone:     phone,
		address:   address,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (c *Client) ID() int64            { return c.id }
func (c *Client) LastName() string     { return c.lastName }
func (c *Client) FirstName() string    { return c.firstName }
func (c *Client) Email() string        { return c.email }
func (c *Client) Phone() string        { return c.phone }
func (c *Client) Address() string      { return c.address }
func (c *Client) CreatedAt() time.Time { return c.createdAt }
func (c *Client) UpdatedAt() time.Time { return c.updatedAt }

// FullName returns "First Last".
func (c *Client) FullName() string {
	return c.firstName + " " + c.lastName
}

// --- Behavior ---

// AssignID sets the identity handed out by persistence.
func (c *Client) AssignID(id int64) error {
	if c.id != 0 {
		return domain.NewValidationError(fmt.Sprintf("client already has id %d", c.id))
	}
	if id <= 0 {
		return domain.NewValidationError("client id must be positive")
	}
	c.id = id
	return nil
}

// UpdateContact applies partial updates: empty arguments keep the current value.
func (c *Client) UpdateContact(email, phone, address string) error {
	if email == "" {
		email = c.email
	}
	if phone == "" {
		phone = c.phone
	}
	if err := c.setContact(email, phone); err != nil {
		return err
	}
	if address != "" {
		c.address = strings.TrimSpace(address)
	}
	c.updatedAt = time.Now().UTC()
	return nil
}

func (c *Client) setName(lastName, firstName string) error {
	lastName = strings.TrimSpace(lastName)
	firstName = strings.TrimSpace(firstName)
	if len([]rune(lastName)) < minNameLength {
		return domain.NewValidationError("last name must have at least 2 characters")
	}
	if len([]rune(firstName)) < minNameLength {
		return domain.NewValidationError("first name must have at least 2 characters")
	}
	c.lastName = lastName
	c.firstName = firstName
	return nil
}

func (c *Client) setContact(email, phone string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return domain.NewValidationError(fmt.Sprintf("invalid email: %s", email))
	}
	if countDigits(phone) < minPhoneDigits {
		return domain.NewValidationError("phone number must have at least 10 digits")
	}
	c.email = email
	c.phone = phone
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
