package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/cwbudde/algo-pzfilter/dsp/filter/design"
	"github.com/cwbudde/algo-pzfilter/dsp/filter/rootset"
)

var errDocument = errors.New("pzrender: invalid document")

// rootSpec is one root in a document. Order defaults to 1; its sign is
// taken from the list the root appears in.
type rootSpec struct {
	Re    float64 `json:"re"`
	Im    float64 `json:"im"`
	Order int     `json:"order,omitempty"`
}

type presetSpec struct {
	Kind   string  `json:"kind"`
	Freq   float64 `json:"freq"`
	Q      float64 `json:"q,omitempty"`
	GainDB float64 `json:"gainDB,omitempty"`
	Order  int     `json:"order,omitempty"`
}

// rootSet is a complete filter state: either a preset or explicit roots.
type rootSet struct {
	Gain   *float64    `json:"gain,omitempty"`
	Preset *presetSpec `json:"preset,omitempty"`
	Zeros  []rootSpec  `json:"zeros,omitempty"`
	Poles  []rootSpec  `json:"poles,omitempty"`
}

// event replaces the root set at a point in time.
type event struct {
	At float64 `json:"at"`
	rootSet
}

type document struct {
	rootSet
	Events []event `json:"events,omitempty"`
}

func loadDocument(path string) (*document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeDocument(f)
}

func decodeDocument(r io.Reader) (*document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errDocument, err)
	}
	for i, ev := range doc.Events {
		if ev.At < 0 {
			return nil, fmt.Errorf("%w: event %d at negative time %g", errDocument, i, ev.At)
		}
	}
	sort.SliceStable(doc.Events, func(i, j int) bool { return doc.Events[i].At < doc.Events[j].At })
	return &doc, nil
}

// apply replaces the contents of s with rs. A document gain multiplies the
// preset's own gain.
func (rs *rootSet) apply(s *rootset.Store, sampleRate float64) error {
	s.Clear()
	s.SetGain(1)

	if rs.Preset != nil {
		seed, err := rs.Preset.store(sampleRate)
		if err != nil {
			return err
		}
		if err := copyRoots(s, seed); err != nil {
			return err
		}
		s.SetGain(seed.Gain())
	}

	// Poles first, so zeros never need a compensating origin pole.
	for _, p := range rs.Poles {
		if err := addRoot(s, p, -1); err != nil {
			return err
		}
	}
	for _, z := range rs.Zeros {
		if err := addRoot(s, z, 1); err != nil {
			return err
		}
	}
	if rs.Gain != nil {
		s.SetGain(s.Gain() * *rs.Gain)
	}
	return s.Validate()
}

func (p *presetSpec) store(sampleRate float64) (*rootset.Store, error) {
	kind, err := design.ParseKind(p.Kind)
	if err != nil {
		return nil, err
	}
	return design.Seed(design.Preset{
		Kind:   kind,
		Freq:   p.Freq,
		Q:      p.Q,
		GainDB: p.GainDB,
		Order:  p.Order,
	}, sampleRate)
}

func copyRoots(dst, src *rootset.Store) error {
	for _, r := range append(src.Poles(), src.Zeros()...) {
		ref, err := dst.Add(r.Order)
		if err != nil {
			return err
		}
		if err := dst.SetValue(ref, r.Value); err != nil {
			return err
		}
	}
	return nil
}

func addRoot(s *rootset.Store, r rootSpec, sign int) error {
	order := r.Order
	if order == 0 {
		order = 1
	}
	if order < 0 {
		return fmt.Errorf("%w: negative order %d, use the poles list", errDocument, order)
	}
	ref, err := s.Add(sign * order)
	if err != nil {
		return err
	}
	return s.SetValue(ref, complex(r.Re, r.Im))
}
