// summary.go - a handler that counts vertices and attributes instead of
// building a full in-memory representation, exercising mvt's capability-set
// handler dispatch (spec 4.4, pkg/mvt/handler.go) from a minimal type.
package main

import (
	"github.com/vtzero-go/mvt/internal/config"
	"github.com/vtzero-go/mvt/pkg/mvt"
)

type summaryHandler struct {
	dims     int
	maxAttrs int

	vertices int
	attrs    int
}

func newSummaryHandler(cfg config.DecodeConfig) *summaryHandler {
	return &summaryHandler{dims: cfg.Dimensions, maxAttrs: cfg.MaxGeometricAttributes}
}

func (s *summaryHandler) Dimensions() int             { return s.dims }
func (s *summaryHandler) MaxGeometricAttributes() int { return s.maxAttrs }

func (s *summaryHandler) PointsPoint(mvt.Point) bool        { s.vertices++; return true }
func (s *summaryHandler) LinestringPoint(mvt.Point) bool    { s.vertices++; return true }
func (s *summaryHandler) RingPoint(mvt.Point) bool          { s.vertices++; return true }
func (s *summaryHandler) ControlPointsPoint(mvt.Point) bool { s.vertices++; return true }

func (s *summaryHandler) AttributeKey(string, int) bool { s.attrs++; return true }
