package enums

import "fmt"

// ActorType identifies who drove an order state change.
type ActorType string

const (
	ActorTypeSystem   ActorType = "system"
	ActorTypeCustomer ActorType = "customer"
	ActorTypeOperator ActorType = "operator"
)

var validActorTypes = []ActorType{
	ActorTypeSystem,
	ActorTypeCustomer,
	ActorTypeOperator,
}

// IsValid reports whether the value is a known ActorType.
func (a ActorType) IsValid() bool {
	for _, candidate := range validActorTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActorType converts raw input into an ActorType.
func ParseActorType(value string) (ActorType, error) {
	for _, candidate := range validActorTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor type %q", value)
}
