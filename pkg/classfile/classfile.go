package classfile

import (
	"bytes"
	"fmt"
	"io"
)

const magic = 0xCAFEBABE

// Access flags
const (
	AccPublic    = 0x0001
	AccFinal     = 0x0010
	AccSuper     = 0x0020
	AccInterface = 0x0200
	AccAbstract  = 0x0400
)

// ClassFile is a parsed .class file. The constant pool is shared by every
// member and attribute; it is owned by the ClassFile and must not be
// mutated concurrently with any parse, rename or copy.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	Pool         *ConstPool
	AccessFlags  uint16

	thisClass  uint16
	superClass uint16
	interfaces []uint16

	Fields  []*MemberInfo
	Methods []*MemberInfo

	attributes []AttributeInfo
}

// MemberInfo is a field_info or method_info structure.
type MemberInfo struct {
	cp              *ConstPool
	AccessFlags     uint16
	nameIndex       uint16
	descriptorIndex uint16
	attributes      []AttributeInfo
}

// New creates an empty class file for the given internal-form class name,
// bound to a fresh constant pool. superName may be "" for
// java/lang/Object itself.
func New(internalName, superName string) *ClassFile {
	cp := NewConstPool()
	cf := &ClassFile{
		MajorVersion: 61, // Java 17, first release with sealed classes and records
		Pool:         cp,
		AccessFlags:  AccPublic | AccSuper,
	}
	cf.thisClass = cp.AddClass(internalName)
	if superName != "" {
		cf.superClass = cp.AddClass(superName)
	}
	return cf
}

// Parse reads a whole class file from data.
func Parse(data []byte) (*ClassFile, error) {
	r := NewReader(data)
	m, err := r.u32()
	if err != nil {
		return nil, err
	}
	if m != magic {
		return nil, fmt.Errorf("%w: magic 0x%08X", ErrBadMagic, m)
	}
	cf := &ClassFile{}
	if cf.MinorVersion, err = r.u16(); err != nil {
		return nil, err
	}
	if cf.MajorVersion, err = r.u16(); err != nil {
		return nil, err
	}
	if cf.Pool, err = readConstPool(r); err != nil {
		return nil, err
	}
	if cf.AccessFlags, err = r.u16(); err != nil {
		return nil, err
	}
	if cf.thisClass, err = r.u16(); err != nil {
		return nil, err
	}
	if cf.superClass, err = r.u16(); err != nil {
		return nil, err
	}
	ifaceCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	cf.interfaces = make([]uint16, 0, ifaceCount)
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		cf.interfaces = append(cf.interfaces, idx)
	}
	if cf.Fields, err = readMembers(cf.Pool, r); err != nil {
		return nil, err
	}
	if cf.Methods, err = readMembers(cf.Pool, r); err != nil {
		return nil, err
	}
	if cf.attributes, err = readAttributes(cf.Pool, r); err != nil {
		return nil, err
	}
	return cf, nil
}

func readAttributes(cp *ConstPool, r *Reader) ([]AttributeInfo, error) {
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	attrs := make([]AttributeInfo, 0, count)
	for i := 0; i < int(count); i++ {
		attr, err := ReadAttribute(cp, r)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func readMembers(cp *ConstPool, r *Reader) ([]*MemberInfo, error) {
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	members := make([]*MemberInfo, 0, count)
	for i := 0; i < int(count); i++ {
		m := &MemberInfo{cp: cp}
		if m.AccessFlags, err = r.u16(); err != nil {
			return nil, err
		}
		if m.nameIndex, err = r.u16(); err != nil {
			return nil, err
		}
		if m.descriptorIndex, err = r.u16(); err != nil {
			return nil, err
		}
		if m.attributes, err = readAttributes(cp, r); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

// Write serializes the class file.
func (cf *ClassFile) Write(w io.Writer) error {
	if err := writeU32(w, magic); err != nil {
		return err
	}
	if err := writeU16(w, cf.MinorVersion); err != nil {
		return err
	}
	if err := writeU16(w, cf.MajorVersion); err != nil {
		return err
	}
	if err := cf.Pool.write(w); err != nil {
		return err
	}
	if err := writeU16(w, cf.AccessFlags); err != nil {
		return err
	}
	if err := writeU16(w, cf.thisClass); err != nil {
		return err
	}
	if err := writeU16(w, cf.superClass); err != nil {
		return err
	}
	if err := writeU16(w, uint16(len(cf.interfaces))); err != nil {
		return err
	}
	for _, idx := range cf.interfaces {
		if err := writeU16(w, idx); err != nil {
			return err
		}
	}
	if err := writeMembers(w, cf.Fields); err != nil {
		return err
	}
	if err := writeMembers(w, cf.Methods); err != nil {
		return err
	}
	return writeAttributeList(w, cf.attributes)
}

func writeAttributeList(w io.Writer, attrs []AttributeInfo) error {
	if err := writeU16(w, uint16(len(attrs))); err != nil {
		return err
	}
	for _, attr := range attrs {
		if err := attr.Write(w); err != nil {
			return err
		}
	}
	return nil
}

func writeMembers(w io.Writer, members []*MemberInfo) error {
	if err := writeU16(w, uint16(len(members))); err != nil {
		return err
	}
	for _, m := range members {
		if err := writeU16(w, m.AccessFlags); err != nil {
			return err
		}
		if err := writeU16(w, m.nameIndex); err != nil {
			return err
		}
		if err := writeU16(w, m.descriptorIndex); err != nil {
			return err
		}
		if err := writeAttributeList(w, m.attributes); err != nil {
			return err
		}
	}
	return nil
}

// Bytes serializes the class file to a fresh buffer.
func (cf *ClassFile) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := cf.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Name returns the internal-form name of this class.
func (cf *ClassFile) Name() (string, error) {
	return cf.Pool.ClassName(cf.thisClass)
}

// SuperName returns the internal-form name of the superclass, or "" for
// java/lang/Object itself (super_class 0).
func (cf *ClassFile) SuperName() (string, error) {
	if cf.superClass == 0 {
		return "", nil
	}
	return cf.Pool.ClassName(cf.superClass)
}

// Interfaces resolves the direct superinterfaces.
func (cf *ClassFile) Interfaces() ([]string, error) {
	names := make([]string, 0, len(cf.interfaces))
	for _, idx := range cf.interfaces {
		name, err := cf.Pool.ClassName(idx)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Attributes returns the class-level attributes.
func (cf *ClassFile) Attributes() []AttributeInfo {
	return cf.attributes
}

// Attribute returns the first class-level attribute with the given name,
// or nil.
func (cf *ClassFile) Attribute(name string) AttributeInfo {
	for _, attr := range cf.attributes {
		if attr.Name() == name {
			return attr
		}
	}
	return nil
}

// AddAttribute appends a class-level attribute. The attribute must be bound
// to cf.Pool.
func (cf *ClassFile) AddAttribute(attr AttributeInfo) {
	cf.attributes = append(cf.attributes, attr)
}

// SetThisClass sets the name of this class, interning it.
func (cf *ClassFile) SetThisClass(internalName string) {
	cf.thisClass = cf.Pool.AddClass(internalName)
}

// SetSuperClass sets the superclass name, interning it.
func (cf *ClassFile) SetSuperClass(internalName string) {
	cf.superClass = cf.Pool.AddClass(internalName)
}

// AddInterface appends a direct superinterface, interning it.
func (cf *ClassFile) AddInterface(internalName string) {
	cf.interfaces = append(cf.interfaces, cf.Pool.AddClass(internalName))
}

// RenameClass rewrites every reference to oldName into newName: the
// this/super/interface references, member descriptors, and every attribute
// at class, field and method level. Names may be given in dot or slash
// form.
func (cf *ClassFile) RenameClass(oldName, newName string) error {
	oldName = ToInternalName(oldName)
	newName = ToInternalName(newName)
	refs := []*uint16{&cf.thisClass, &cf.superClass}
	for i := range cf.interfaces {
		refs = append(refs, &cf.interfaces[i])
	}
	for _, ref := range refs {
		if *ref == 0 {
			continue
		}
		name, err := cf.Pool.ClassName(*ref)
		if err != nil {
			return err
		}
		if name == oldName {
			*ref = cf.Pool.AddClass(newName)
		}
	}
	for _, m := range append(append([]*MemberInfo{}, cf.Fields...), cf.Methods...) {
		if err := m.renameClass(oldName, newName); err != nil {
			return err
		}
	}
	for _, attr := range cf.attributes {
		if err := attr.RenameClass(oldName, newName); err != nil {
			return err
		}
	}
	return nil
}

// NewMember creates a field or method bound to cf's pool.
func (cf *ClassFile) NewMember(accessFlags uint16, name, descriptor string, attrs []AttributeInfo) *MemberInfo {
	return &MemberInfo{
		cp:              cf.Pool,
		AccessFlags:     accessFlags,
		nameIndex:       cf.Pool.AddUtf8(name),
		descriptorIndex: cf.Pool.AddUtf8(descriptor),
		attributes:      attrs,
	}
}

// Name resolves the member name.
func (m *MemberInfo) Name() (string, error) {
	return m.cp.Utf8(m.nameIndex)
}

// Descriptor resolves the member descriptor.
func (m *MemberInfo) Descriptor() (string, error) {
	return m.cp.Utf8(m.descriptorIndex)
}

// Attributes returns the member's attributes.
func (m *MemberInfo) Attributes() []AttributeInfo {
	return m.attributes
}

func (m *MemberInfo) renameClass(oldName, newName string) error {
	descriptor, err := m.Descriptor()
	if err != nil {
		return err
	}
	renamed := RenameDescriptor(descriptor, oldName, newName)
	if renamed != descriptor {
		m.descriptorIndex = m.cp.AddUtf8(renamed)
	}
	for _, attr := range m.attributes {
		if err := attr.RenameClass(oldName, newName); err != nil {
			return err
		}
	}
	return nil
}
