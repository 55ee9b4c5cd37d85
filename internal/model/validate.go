package model

import (
	"fmt"
	"strings"
)

// ValidationError reports a structural problem in a network description.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Validate checks name, port range and criticality range, in that order.
func (s Service) Validate() error {
	if blank(s.Name) {
		return invalidf("service.name must be non-empty")
	}
	if s.Port < 1 || s.Port > 65535 {
		return invalidf("service.port must be between 1 and 65535, got %d", s.Port)
	}
	if s.Criticality < 1 || s.Criticality > 5 {
		return invalidf("service.criticality must be between 1 and 5, got %d", s.Criticality)
	}
	return nil
}

// Validate checks the node's own fields, then each service in order.
// A port repeated on the same node fails at its second occurrence.
func (n Node) Validate() error {
	if blank(n.ID) {
		return invalidf("node.id must be non-empty")
	}
	if blank(n.Role) {
		return invalidf("node[%s].role must be non-empty", n.ID)
	}

	seenPorts := make(map[int]struct{}, len(n.Services))
	for _, svc := range n.Services {
		if err := svc.Validate(); err != nil {
			return err
		}
		if _, dup := seenPorts[svc.Port]; dup {
			return invalidf("node[%s] contains duplicate port definition: %d", n.ID, svc.Port)
		}
		seenPorts[svc.Port] = struct{}{}
	}
	return nil
}

// Validate reports the first structural violation found, or nil.
//
// Order matters and is part of the contract: the network name first, then
// every node in declaration order (the node's own checks and its services)
// followed by the duplicate id check for that node.
func (n Network) Validate() error {
	if blank(n.Name) {
		return invalidf("network.name must be non-empty")
	}

	seenIDs := make(map[string]struct{}, len(n.Nodes))
	for _, node := range n.Nodes {
		if err := node.Validate(); err != nil {
			return err
		}
		if _, dup := seenIDs[node.ID]; dup {
			return invalidf("duplicate node id detected: %s", node.ID)
		}
		seenIDs[node.ID] = struct{}{}
	}
	return nil
}
