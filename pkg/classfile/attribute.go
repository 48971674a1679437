package classfile

import (
	"io"
)

// AttributeInfo is a named, length-prefixed binary block attached to a
// class, field, method or record component. Implementations hold constant
// pool indices, never resolved strings; every string-level operation goes
// through the pool the attribute is bound to.
type AttributeInfo interface {
	// Name returns the attribute name.
	Name() string

	// Write serializes the attribute, including its own u2 name index and
	// u4 length framing. The name is re-interned through the bound pool so
	// writing stays valid after the pool has grown.
	Write(w io.Writer) error

	// CopyTo deep-copies the attribute into newPool. classnames maps
	// old internal class names to new ones and is applied to descriptor
	// and signature strings during the copy. The result holds no indices
	// into the source pool.
	CopyTo(newPool *ConstPool, classnames map[string]string) (AttributeInfo, error)

	// RenameClass rewrites every reference to oldName (internal form) into
	// newName, in place, recursing into nested attributes.
	RenameClass(oldName, newName string) error
}

// decoderFunc materializes a concrete attribute from its body bytes.
type decoderFunc func(cp *ConstPool, nameIndex uint16, body []byte) (AttributeInfo, error)

// attributeDecoders maps attribute names to decoders. Unrecognized names
// fall back to OpaqueAttribute, which keeps the body verbatim.
var attributeDecoders map[string]decoderFunc

func init() {
	attributeDecoders = map[string]decoderFunc{
		PermittedSubclassesTag: decodePermittedSubclasses,
		RecordTag:              decodeRecord,
		SignatureTag:           decodeSignature,
	}
}

// ReadAttribute reads one attribute (u2 name index, u4 length, body) from r
// and dispatches on the resolved name. The cursor always advances exactly
// past the declared length, so unknown attributes remain skippable.
func ReadAttribute(cp *ConstPool, r *Reader) (AttributeInfo, error) {
	nameIndex, err := r.u16()
	if err != nil {
		return nil, err
	}
	length, err := r.u32()
	if err != nil {
		return nil, err
	}
	body, err := r.bytes(int(length))
	if err != nil {
		return nil, err
	}
	name, err := cp.Utf8(nameIndex)
	if err != nil {
		return nil, err
	}
	if decode, ok := attributeDecoders[name]; ok {
		return decode(cp, nameIndex, body)
	}
	raw := make([]byte, len(body))
	copy(raw, body)
	return &OpaqueAttribute{cp: cp, name: name, body: raw}, nil
}

// DecodeAttribute parses a single framed attribute from data.
func DecodeAttribute(cp *ConstPool, data []byte) (AttributeInfo, error) {
	return ReadAttribute(cp, NewReader(data))
}

// RenameClasses applies every old→new pair of classnames to attr via
// RenameClass, one pair at a time in map iteration order. Behavior is
// unspecified when one pair's target is another pair's source; callers
// needing chained renames must make separate calls.
func RenameClasses(attr AttributeInfo, classnames map[string]string) error {
	for oldName, newName := range classnames {
		if err := attr.RenameClass(oldName, newName); err != nil {
			return err
		}
	}
	return nil
}

// OpaqueAttribute holds an attribute whose name is not recognized. The body
// is retained untouched so unknown attribute kinds round-trip losslessly.
type OpaqueAttribute struct {
	cp   *ConstPool
	name string
	body []byte
}

// NewOpaqueAttribute creates an opaque attribute with the given raw body.
func NewOpaqueAttribute(cp *ConstPool, name string, body []byte) *OpaqueAttribute {
	cp.AddUtf8(name)
	return &OpaqueAttribute{cp: cp, name: name, body: body}
}

func (a *OpaqueAttribute) Name() string {
	return a.name
}

// Body returns the raw attribute body.
func (a *OpaqueAttribute) Body() []byte {
	return a.body
}

func (a *OpaqueAttribute) Write(w io.Writer) error {
	if err := writeU16(w, a.cp.AddUtf8(a.name)); err != nil {
		return err
	}
	if err := writeU32(w, uint32(len(a.body))); err != nil {
		return err
	}
	_, err := w.Write(a.body)
	return err
}

func (a *OpaqueAttribute) CopyTo(newPool *ConstPool, classnames map[string]string) (AttributeInfo, error) {
	body := make([]byte, len(a.body))
	copy(body, a.body)
	return NewOpaqueAttribute(newPool, a.name, body), nil
}

// RenameClass is a no-op: the body is opaque, so any class references
// inside it cannot be located.
func (a *OpaqueAttribute) RenameClass(oldName, newName string) error {
	return nil
}
