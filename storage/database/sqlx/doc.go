package sqlxrepos

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/campusops/registrar/core/catalog"
)

// nodeDoc is the JSON shape a rule tree is persisted as. A document node is a
// leaf when Requirement is set, a group otherwise.
type nodeDoc struct {
	ID          string               `json:"id,omitempty"`
	Op          catalog.Operator     `json:"op,omitempty"`
	Children    []nodeDoc            `json:"children,omitempty"`
	Requirement *catalog.Requirement `json:"requirement,omitempty"`
}

func encodeNode(n catalog.Node) nodeDoc {
	switch n := n.(type) {
	case catalog.Group:
		doc := nodeDoc{ID: n.ID, Op: n.Op}
		for _, child := range n.Children {
			doc.Children = append(doc.Children, encodeNode(child))
		}
		return doc
	case catalog.Leaf:
		req := n.Requirement
		return nodeDoc{Requirement: &req}
	}
	return nodeDoc{}
}

func decodeNode(doc nodeDoc) catalog.Node {
	if doc.Requirement != nil {
		return catalog.Leaf{Requirement: *doc.Requirement}
	}
	group := catalog.Group{ID: doc.ID, Op: doc.Op}
	for _, child := range doc.Children {
		group.Children = append(group.Children, decodeNode(child))
	}
	return group
}

func marshalRoot(n catalog.Node) ([]byte, error) {
	if n == nil {
		return nil, errors.New("rule has no root node")
	}
	data, err := json.Marshal(encodeNode(n))
	return data, errors.Wrap(err, "marshaling rule tree")
}

func unmarshalRoot(data []byte) (catalog.Node, error) {
	var doc nodeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "unmarshaling rule tree")
	}
	return decodeNode(doc), nil
}
