package session

import (
	"encoding/json"

	"github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/model"
)

// ExportJSON serializes the full diagram record as indented JSON. The output
// round-trips through ImportJSON.
func (s *Session) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s.Diagram(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal diagram")
	}
	return data, nil
}

// ImportJSON replaces the session's diagram with the one decoded from data
// and clears history. On non-parsable input it returns an INVALID_FORMAT
// error and leaves the live diagram untouched.
func (s *Session) ImportJSON(data []byte) error {
	var d model.Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse diagram JSON")
	}

	if d.ID == "" {
		d.ID = model.NewID()
	}
	if d.SchemaVersion == 0 {
		d.SchemaVersion = model.SchemaVersion
	}
	if !d.Direction.Valid() {
		d.Direction = model.DirectionLR
	}
	if d.ConnectorStyle == "" {
		d.ConnectorStyle = model.ConnectorSmoothstep
	}

	nodes, edges, _ := model.Normalize(d.Nodes, d.Edges)

	clone := d.Clone()
	clone.Nodes, clone.Edges = nil, nil
	s.meta = clone
	s.m.SetNodes(nodes)
	s.m.SetEdges(edges)
	s.hist.Clear()
	s.touch()
	return nil
}
