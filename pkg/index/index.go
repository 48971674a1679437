// Package index persists summaries of scanned class files in a pebble
// store, keyed by internal-form class name.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/rkall/classkit/pkg/classfile"
)

// ErrNotIndexed is returned when a class name has no entry.
var ErrNotIndexed = errors.New("class not indexed")

// RecordComponent is one record component of an indexed class.
type RecordComponent struct {
	Name       string `json:"name"`
	Descriptor string `json:"descriptor"`
}

// ClassSummary is the stored metadata for one scanned class.
type ClassSummary struct {
	ClassName           string            `json:"class_name"` // internal form
	SuperName           string            `json:"super_name,omitempty"`
	Interfaces          []string          `json:"interfaces,omitempty"`
	SourcePath          string            `json:"source_path,omitempty"`
	ScanID              string            `json:"scan_id,omitempty"`
	RecordComponents    []RecordComponent `json:"record_components,omitempty"`
	PermittedSubclasses []string          `json:"permitted_subclasses,omitempty"`
	AttributeNames      []string          `json:"attribute_names,omitempty"`
	ScannedAt           time.Time         `json:"scanned_at"`
}

// IsRecord reports whether the class carries a Record attribute.
func (s *ClassSummary) IsRecord() bool {
	return len(s.RecordComponents) > 0
}

// IsSealed reports whether the class carries a PermittedSubclasses
// attribute with at least one entry.
func (s *ClassSummary) IsSealed() bool {
	return len(s.PermittedSubclasses) > 0
}

// Index is a pebble-backed store of class summaries.
type Index struct {
	db *pebble.DB
}

// Open opens (or creates) an index at path.
func Open(path string) (*Index, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return &Index{db: db}, nil
}

// NewScanID returns a fresh identifier for one scan session.
func NewScanID() string {
	return ksuid.New().String()
}

// Put stores or replaces the summary for its class name.
func (x *Index) Put(summary ClassSummary) error {
	if summary.ClassName == "" {
		return errors.New("summary has no class name")
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	return x.db.Set([]byte(summary.ClassName), data, pebble.NoSync)
}

// Get returns the summary for an internal-form class name.
func (x *Index) Get(className string) (*ClassSummary, error) {
	data, closer, err := x.db.Get([]byte(className))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotIndexed, className)
		}
		return nil, err
	}
	defer closer.Close()

	var summary ClassSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	return &summary, nil
}

// List returns every summary whose class name starts with prefix, in key
// order. An empty prefix lists everything.
func (x *Index) List(prefix string) ([]ClassSummary, error) {
	opts := &pebble.IterOptions{}
	if prefix != "" {
		opts.LowerBound = []byte(prefix)
		opts.UpperBound = prefixUpperBound([]byte(prefix))
	}
	iter, err := x.db.NewIter(opts)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var summaries []ClassSummary
	for iter.First(); iter.Valid(); iter.Next() {
		var summary ClassSummary
		if err := json.Unmarshal(iter.Value(), &summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal summary for %q: %w", iter.Key(), err)
		}
		summaries = append(summaries, summary)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Delete removes a class from the index.
func (x *Index) Delete(className string) error {
	return x.db.Delete([]byte(className), pebble.NoSync)
}

// Close closes the underlying store.
func (x *Index) Close() error {
	return x.db.Close()
}

// prefixUpperBound returns the smallest key greater than every key with
// the given prefix.
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xFF {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil // prefix is all 0xFF, no upper bound
}

// Summarize extracts an indexable summary from a parsed class file.
func Summarize(cf *classfile.ClassFile, sourcePath, scanID string) (ClassSummary, error) {
	name, err := cf.Name()
	if err != nil {
		return ClassSummary{}, err
	}
	superName, err := cf.SuperName()
	if err != nil {
		return ClassSummary{}, err
	}
	interfaces, err := cf.Interfaces()
	if err != nil {
		return ClassSummary{}, err
	}

	summary := ClassSummary{
		ClassName:  name,
		SuperName:  superName,
		Interfaces: interfaces,
		SourcePath: sourcePath,
		ScanID:     scanID,
		ScannedAt:  time.Now().UTC(),
	}
	for _, attr := range cf.Attributes() {
		summary.AttributeNames = append(summary.AttributeNames, attr.Name())
	}

	if record, ok := cf.Attribute(classfile.RecordTag).(*classfile.RecordAttribute); ok {
		for _, component := range record.Components() {
			cname, err := component.Name()
			if err != nil {
				return ClassSummary{}, err
			}
			descriptor, err := component.Descriptor()
			if err != nil {
				return ClassSummary{}, err
			}
			summary.RecordComponents = append(summary.RecordComponents, RecordComponent{
				Name:       cname,
				Descriptor: descriptor,
			})
		}
	}

	if permitted, ok := cf.Attribute(classfile.PermittedSubclassesTag).(*classfile.PermittedSubclassesAttribute); ok {
		names, err := permitted.PermittedSubclasses()
		if err != nil {
			return ClassSummary{}, err
		}
		summary.PermittedSubclasses = names
	}

	return summary, nil
}

// NormalizeName converts dot-form lookups to the internal form used as the
// index key.
func NormalizeName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
