package model

// Default values applied to a Service when the source document omits them.
const (
	DefaultEncrypted     = true
	DefaultAuthenticated = true
	DefaultCriticality   = 3
)

// Service is a network-facing endpoint exposed by a node.
// Range checks happen in Validate, not at construction.
type Service struct {
	Name          string
	Port          int
	Public        bool
	Encrypted     bool
	Authenticated bool
	Criticality   int
}

// NewService returns a service carrying the documented defaults:
// private, encrypted, authenticated, criticality 3.
func NewService(name string, port int) Service {
	return Service{
		Name:          name,
		Port:          port,
		Encrypted:     DefaultEncrypted,
		Authenticated: DefaultAuthenticated,
		Criticality:   DefaultCriticality,
	}
}

// Node is a host or application. Services keep their declaration order.
type Node struct {
	ID       string
	Role     string
	Services []Service
}

// Network is the unit of assessment.
type Network struct {
	Name  string
	Nodes []Node
}
