package vehicle

import "fmt"

// Kind discriminates the vehicle variants. Each kind carries its own
// attribute payload and its own tariff.
type Kind string

const (
	KindCar        Kind = "car"
	KindVan        Kind = "van"
	KindMotorcycle Kind = "motorcycle"
)

// IsValid checks whether the kind is a known variant.
func (k Kind) IsValid() bool {
	switch k {
	case KindCar, KindVan, KindMotorcycle:
		return true
	}
	return false
}

// String returns the string representation.
func (k Kind) String() string {
	return string(k)
}

// Category returns the category tag shown to customers. It is always derived
// from the kind.
func (k Kind) Category() string {
	switch k {
	case KindCar:
		return "Voiture"
	case KindVan:
		return "Utilitaire"
	case KindMotorcycle:
		return "Moto"
	}
	return ""
}

// ParseKind converts a string to a Kind, returning an error if invalid.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid vehicle kind: %s", s)
	}
	return k, nil
}
