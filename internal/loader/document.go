package loader

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"radarnet/internal/model"
)

// DefaultRole is assigned to nodes that omit a role.
const DefaultRole = "unknown"

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Pointer fields distinguish an omitted key from a zero value: omitted
// optional fields take defaults, omitted required ones are malformed input,
// and present-but-blank values are left for model validation to reject.

type networkDocument struct {
	Name  *string        `json:"name" yaml:"name"`
	Nodes []nodeDocument `json:"nodes" yaml:"nodes" validate:"dive"`
}

type nodeDocument struct {
	ID       *string           `json:"id" yaml:"id" validate:"required"`
	Role     *string           `json:"role" yaml:"role"`
	Services []serviceDocument `json:"services" yaml:"services" validate:"dive"`
}

type serviceDocument struct {
	Name          *string `json:"name" yaml:"name" validate:"required"`
	Port          *int    `json:"port" yaml:"port" validate:"required"`
	Public        *bool   `json:"public" yaml:"public"`
	Encrypted     *bool   `json:"encrypted" yaml:"encrypted"`
	Authenticated *bool   `json:"authenticated" yaml:"authenticated"`
	Criticality   *int    `json:"criticality" yaml:"criticality"`
}

var serviceKeys = map[string]struct{}{
	"name": {}, "port": {}, "public": {}, "encrypted": {}, "authenticated": {}, "criticality": {},
}

// checkServiceKeys rejects keys that are not service fields.
func checkServiceKeys(keys []string) error {
	var unknown []string
	for _, k := range keys {
		if _, ok := serviceKeys[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unexpected service field(s): %s", strings.Join(unknown, ", "))
}

func (s *serviceDocument) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	if err := checkServiceKeys(keys); err != nil {
		return err
	}

	type plain serviceDocument
	return json.Unmarshal(data, (*plain)(s))
}

func (s *serviceDocument) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		keys := make([]string, 0, len(value.Content)/2)
		for i := 0; i < len(value.Content); i += 2 {
			keys = append(keys, value.Content[i].Value)
		}
		if err := checkServiceKeys(keys); err != nil {
			return err
		}
	}

	type plain serviceDocument
	return value.Decode((*plain)(s))
}

// formatValidationError reports the first missing field by its document path.
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		// Drop the root struct name: "networkDocument.nodes[0].id" -> "nodes[0].id"
		path := e.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", path)
		default:
			return fmt.Errorf("%s: validation failed (%s)", path, e.Tag())
		}
	}
	return err
}

// toNetwork applies defaults and converts the document to model values.
func (d networkDocument) toNetwork(fallbackName string) model.Network {
	network := model.Network{Name: fallbackName}
	if d.Name != nil {
		network.Name = *d.Name
	}

	for _, nd := range d.Nodes {
		node := model.Node{ID: *nd.ID, Role: DefaultRole}
		if nd.Role != nil {
			node.Role = *nd.Role
		}
		for _, sd := range nd.Services {
			node.Services = append(node.Services, sd.toService())
		}
		network.Nodes = append(network.Nodes, node)
	}
	return network
}

func (d serviceDocument) toService() model.Service {
	svc := model.NewService(*d.Name, *d.Port)
	if d.Public != nil {
		svc.Public = *d.Public
	}
	if d.Encrypted != nil {
		svc.Encrypted = *d.Encrypted
	}
	if d.Authenticated != nil {
		svc.Authenticated = *d.Authenticated
	}
	if d.Criticality != nil {
		svc.Criticality = *d.Criticality
	}
	return svc
}
