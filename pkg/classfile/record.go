package classfile

import (
	"bytes"
	"io"
)

// RecordTag is the name of the Record attribute.
const RecordTag = "Record"

// RecordAttribute stores the components of a record class, in declaration
// order.
//
// Body layout:
//
//	u2 components_count
//	component[components_count]:
//	    u2 name_index
//	    u2 descriptor_index
//	    u2 attributes_count
//	    attribute[attributes_count]   // each self-framed: u2 name, u4 len, body
type RecordAttribute struct {
	cp         *ConstPool
	components []*RecordComponent
}

// RecordComponent is a single record component: its name, its field
// descriptor and any nested attributes. A component exclusively owns its
// attribute list.
type RecordComponent struct {
	cp              *ConstPool
	nameIndex       uint16
	descriptorIndex uint16
	attributes      []AttributeInfo
}

// NewRecordAttribute creates a Record attribute holding components, all of
// which must be bound to cp.
func NewRecordAttribute(cp *ConstPool, components []*RecordComponent) *RecordAttribute {
	cp.AddUtf8(RecordTag)
	return &RecordAttribute{cp: cp, components: components}
}

// NewRecordComponent creates a component from pool indices. name and
// descriptor must be Utf8 indices into cp.
func NewRecordComponent(cp *ConstPool, nameIndex, descriptorIndex uint16, attributes []AttributeInfo) *RecordComponent {
	return &RecordComponent{
		cp:              cp,
		nameIndex:       nameIndex,
		descriptorIndex: descriptorIndex,
		attributes:      attributes,
	}
}

func decodeRecord(cp *ConstPool, nameIndex uint16, body []byte) (AttributeInfo, error) {
	r := NewReader(body)
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	components := make([]*RecordComponent, 0, count)
	for i := 0; i < int(count); i++ {
		name, err := r.u16()
		if err != nil {
			return nil, err
		}
		descriptor, err := r.u16()
		if err != nil {
			return nil, err
		}
		attrCount, err := r.u16()
		if err != nil {
			return nil, err
		}
		attributes := make([]AttributeInfo, 0, attrCount)
		for j := 0; j < int(attrCount); j++ {
			attr, err := ReadAttribute(cp, r)
			if err != nil {
				return nil, err
			}
			attributes = append(attributes, attr)
		}
		components = append(components, NewRecordComponent(cp, name, descriptor, attributes))
	}
	return &RecordAttribute{cp: cp, components: components}, nil
}

func (a *RecordAttribute) Name() string {
	return RecordTag
}

// Components returns the component list in declaration order.
func (a *RecordAttribute) Components() []*RecordComponent {
	return a.components
}

// Write serializes the attribute with its u2 name index and u4 length
// framing. Nested attributes write their own framing.
func (a *RecordAttribute) Write(w io.Writer) error {
	var body bytes.Buffer
	if err := writeU16(&body, uint16(len(a.components))); err != nil {
		return err
	}
	for _, c := range a.components {
		if err := writeU16(&body, c.nameIndex); err != nil {
			return err
		}
		if err := writeU16(&body, c.descriptorIndex); err != nil {
			return err
		}
		if err := writeU16(&body, uint16(len(c.attributes))); err != nil {
			return err
		}
		for _, attr := range c.attributes {
			if err := attr.Write(&body); err != nil {
				return err
			}
		}
	}
	if err := writeU16(w, a.cp.AddUtf8(RecordTag)); err != nil {
		return err
	}
	if err := writeU32(w, uint32(body.Len())); err != nil {
		return err
	}
	_, err := w.Write(body.Bytes())
	return err
}

// RenameClass rewrites every component descriptor referencing oldName and
// recurses into each component's nested attributes. Descriptors that do not
// reference oldName keep their index unchanged.
func (a *RecordAttribute) RenameClass(oldName, newName string) error {
	for _, c := range a.components {
		descriptor, err := c.Descriptor()
		if err != nil {
			return err
		}
		renamed := RenameDescriptor(descriptor, oldName, newName)
		if renamed != descriptor {
			c.descriptorIndex = a.cp.AddUtf8(renamed)
		}
		for _, attr := range c.attributes {
			if err := attr.RenameClass(oldName, newName); err != nil {
				return err
			}
		}
	}
	return nil
}

// CopyTo deep-copies the attribute into newPool. Component names are
// re-interned unchanged; descriptors are rewritten through classnames
// before interning; nested attributes copy themselves recursively. The
// result holds no indices into the source pool.
func (a *RecordAttribute) CopyTo(newPool *ConstPool, classnames map[string]string) (AttributeInfo, error) {
	components := make([]*RecordComponent, 0, len(a.components))
	for _, c := range a.components {
		name, err := c.Name()
		if err != nil {
			return nil, err
		}
		descriptor, err := c.Descriptor()
		if err != nil {
			return nil, err
		}
		attributes := make([]AttributeInfo, 0, len(c.attributes))
		for _, attr := range c.attributes {
			copied, err := attr.CopyTo(newPool, classnames)
			if err != nil {
				return nil, err
			}
			attributes = append(attributes, copied)
		}
		components = append(components, NewRecordComponent(
			newPool,
			newPool.AddUtf8(name),
			newPool.AddUtf8(RenameDescriptorMap(descriptor, classnames)),
			attributes,
		))
	}
	return NewRecordAttribute(newPool, components), nil
}

// Name resolves the component name.
func (c *RecordComponent) Name() (string, error) {
	return c.cp.Utf8(c.nameIndex)
}

// Descriptor resolves the component's field descriptor.
func (c *RecordComponent) Descriptor() (string, error) {
	return c.cp.Utf8(c.descriptorIndex)
}

// Attributes returns the component's nested attributes.
func (c *RecordComponent) Attributes() []AttributeInfo {
	return c.attributes
}

// NameIndex returns the constant pool index of the component name.
func (c *RecordComponent) NameIndex() uint16 {
	return c.nameIndex
}

// DescriptorIndex returns the constant pool index of the descriptor.
func (c *RecordComponent) DescriptorIndex() uint16 {
	return c.descriptorIndex
}
