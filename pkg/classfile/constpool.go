package classfile

import (
	"fmt"
	"io"
	"strings"
)

// Constant pool entry tags (JVMS table 4.4-A)
const (
	TagUtf8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldref           = 9
	TagMethodref          = 10
	TagInterfaceMethodref = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagDynamic            = 17
	TagInvokeDynamic      = 18
	TagModule             = 19
	TagPackage            = 20
)

// Entry is a single constant pool entry.
type Entry interface {
	Tag() uint8
}

type Utf8Info struct {
	Value string
}

func (e *Utf8Info) Tag() uint8 { return TagUtf8 }

type IntegerInfo struct {
	Value int32
}

func (e *IntegerInfo) Tag() uint8 { return TagInteger }

type FloatInfo struct {
	Bits uint32
}

func (e *FloatInfo) Tag() uint8 { return TagFloat }

type LongInfo struct {
	Value int64
}

func (e *LongInfo) Tag() uint8 { return TagLong }

type DoubleInfo struct {
	Bits uint64
}

func (e *DoubleInfo) Tag() uint8 { return TagDouble }

type ClassInfo struct {
	NameIndex uint16
}

func (e *ClassInfo) Tag() uint8 { return TagClass }

type StringInfo struct {
	StringIndex uint16
}

func (e *StringInfo) Tag() uint8 { return TagString }

type FieldrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (e *FieldrefInfo) Tag() uint8 { return TagFieldref }

type MethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (e *MethodrefInfo) Tag() uint8 { return TagMethodref }

type InterfaceMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (e *InterfaceMethodrefInfo) Tag() uint8 { return TagInterfaceMethodref }

type NameAndTypeInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (e *NameAndTypeInfo) Tag() uint8 { return TagNameAndType }

type MethodHandleInfo struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

func (e *MethodHandleInfo) Tag() uint8 { return TagMethodHandle }

type MethodTypeInfo struct {
	DescriptorIndex uint16
}

func (e *MethodTypeInfo) Tag() uint8 { return TagMethodType }

type DynamicInfo struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (e *DynamicInfo) Tag() uint8 { return TagDynamic }

type InvokeDynamicInfo struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (e *InvokeDynamicInfo) Tag() uint8 { return TagInvokeDynamic }

type ModuleInfo struct {
	NameIndex uint16
}

func (e *ModuleInfo) Tag() uint8 { return TagModule }

type PackageInfo struct {
	NameIndex uint16
}

func (e *PackageInfo) Tag() uint8 { return TagPackage }

// ConstPool is the class-file-wide table of interned constants. Indices are
// 1-based 16-bit values; index 0 is invalid. Long and Double entries occupy
// two consecutive slots, the second of which is unusable.
//
// Adding an entry that already exists returns the existing index, so two
// different indices may still name the same logical class when a pool was
// parsed from bytes that carried duplicates. Callers comparing classes must
// compare resolved names, not indices.
type ConstPool struct {
	entries []Entry // entries[0] is a nil placeholder
	utf8    map[string]uint16
	classes map[string]uint16
}

// NewConstPool creates an empty constant pool.
func NewConstPool() *ConstPool {
	return &ConstPool{
		entries: []Entry{nil},
		utf8:    make(map[string]uint16),
		classes: make(map[string]uint16),
	}
}

// Size returns the constant_pool_count value: one more than the number of
// occupied slots.
func (cp *ConstPool) Size() int {
	return len(cp.entries)
}

// Entry returns the entry at idx, or nil if idx is out of range or points at
// the unusable slot after a Long/Double.
func (cp *ConstPool) Entry(idx uint16) Entry {
	if idx == 0 || int(idx) >= len(cp.entries) {
		return nil
	}
	return cp.entries[idx]
}

func (cp *ConstPool) append(e Entry) uint16 {
	idx := uint16(len(cp.entries))
	cp.entries = append(cp.entries, e)
	return idx
}

// AddUtf8 interns a UTF-8 string and returns its index. An existing entry
// with the same value is reused.
func (cp *ConstPool) AddUtf8(s string) uint16 {
	if idx, ok := cp.utf8[s]; ok {
		return idx
	}
	idx := cp.append(&Utf8Info{Value: s})
	cp.utf8[s] = idx
	return idx
}

// AddClass interns a class entry for the given internal-form name
// ("java/lang/String") and returns its index.
func (cp *ConstPool) AddClass(internalName string) uint16 {
	if idx, ok := cp.classes[internalName]; ok {
		return idx
	}
	nameIdx := cp.AddUtf8(internalName)
	idx := cp.append(&ClassInfo{NameIndex: nameIdx})
	cp.classes[internalName] = idx
	return idx
}

// Utf8 resolves a UTF-8 entry to its string value.
func (cp *ConstPool) Utf8(idx uint16) (string, error) {
	e, ok := cp.Entry(idx).(*Utf8Info)
	if !ok {
		return "", fmt.Errorf("%w: no Utf8 entry at %d", ErrUnresolvedIndex, idx)
	}
	return e.Value, nil
}

// ClassName resolves a Class entry to its internal-form name.
func (cp *ConstPool) ClassName(idx uint16) (string, error) {
	e, ok := cp.Entry(idx).(*ClassInfo)
	if !ok {
		return "", fmt.Errorf("%w: no Class entry at %d", ErrUnresolvedIndex, idx)
	}
	return cp.Utf8(e.NameIndex)
}

// ToInternalName converts a dot-separated class name to internal form.
// Names already in internal form pass through unchanged.
func ToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// readConstPool parses the constant_pool_count and constant pool table.
func readConstPool(r *Reader) (*ConstPool, error) {
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	cp := NewConstPool()
	for i := 1; i < int(count); i++ {
		tag, err := r.u8()
		if err != nil {
			return nil, err
		}
		var e Entry
		switch tag {
		case TagUtf8:
			n, err := r.u16()
			if err != nil {
				return nil, err
			}
			b, err := r.bytes(int(n))
			if err != nil {
				return nil, err
			}
			e = &Utf8Info{Value: string(b)}
		case TagInteger:
			v, err := r.u32()
			if err != nil {
				return nil, err
			}
			e = &IntegerInfo{Value: int32(v)}
		case TagFloat:
			v, err := r.u32()
			if err != nil {
				return nil, err
			}
			e = &FloatInfo{Bits: v}
		case TagLong:
			hi, err := r.u32()
			if err != nil {
				return nil, err
			}
			lo, err := r.u32()
			if err != nil {
				return nil, err
			}
			e = &LongInfo{Value: int64(uint64(hi)<<32 | uint64(lo))}
		case TagDouble:
			hi, err := r.u32()
			if err != nil {
				return nil, err
			}
			lo, err := r.u32()
			if err != nil {
				return nil, err
			}
			e = &DoubleInfo{Bits: uint64(hi)<<32 | uint64(lo)}
		case TagClass:
			v, err := r.u16()
			if err != nil {
				return nil, err
			}
			e = &ClassInfo{NameIndex: v}
		case TagString:
			v, err := r.u16()
			if err != nil {
				return nil, err
			}
			e = &StringInfo{StringIndex: v}
		case TagFieldref, TagMethodref, TagInterfaceMethodref:
			c, err := r.u16()
			if err != nil {
				return nil, err
			}
			nt, err := r.u16()
			if err != nil {
				return nil, err
			}
			switch tag {
			case TagFieldref:
				e = &FieldrefInfo{ClassIndex: c, NameAndTypeIndex: nt}
			case TagMethodref:
				e = &MethodrefInfo{ClassIndex: c, NameAndTypeIndex: nt}
			default:
				e = &InterfaceMethodrefInfo{ClassIndex: c, NameAndTypeIndex: nt}
			}
		case TagNameAndType:
			n, err := r.u16()
			if err != nil {
				return nil, err
			}
			d, err := r.u16()
			if err != nil {
				return nil, err
			}
			e = &NameAndTypeInfo{NameIndex: n, DescriptorIndex: d}
		case TagMethodHandle:
			kind, err := r.u8()
			if err != nil {
				return nil, err
			}
			ref, err := r.u16()
			if err != nil {
				return nil, err
			}
			e = &MethodHandleInfo{ReferenceKind: kind, ReferenceIndex: ref}
		case TagMethodType:
			d, err := r.u16()
			if err != nil {
				return nil, err
			}
			e = &MethodTypeInfo{DescriptorIndex: d}
		case TagDynamic, TagInvokeDynamic:
			bm, err := r.u16()
			if err != nil {
				return nil, err
			}
			nt, err := r.u16()
			if err != nil {
				return nil, err
			}
			if tag == TagDynamic {
				e = &DynamicInfo{BootstrapMethodAttrIndex: bm, NameAndTypeIndex: nt}
			} else {
				e = &InvokeDynamicInfo{BootstrapMethodAttrIndex: bm, NameAndTypeIndex: nt}
			}
		case TagModule:
			v, err := r.u16()
			if err != nil {
				return nil, err
			}
			e = &ModuleInfo{NameIndex: v}
		case TagPackage:
			v, err := r.u16()
			if err != nil {
				return nil, err
			}
			e = &PackageInfo{NameIndex: v}
		default:
			return nil, fmt.Errorf("%w: unknown constant pool tag %d at entry %d", ErrBadMagic, tag, i)
		}
		idx := cp.append(e)
		switch v := e.(type) {
		case *Utf8Info:
			if _, ok := cp.utf8[v.Value]; !ok {
				cp.utf8[v.Value] = idx
			}
		case *LongInfo, *DoubleInfo:
			// second slot is unusable
			cp.append(nil)
			i++
		}
	}
	// Class intern map needs the Utf8 entries resolved first.
	for i, e := range cp.entries {
		if c, ok := e.(*ClassInfo); ok {
			if name, err := cp.Utf8(c.NameIndex); err == nil {
				if _, seen := cp.classes[name]; !seen {
					cp.classes[name] = uint16(i)
				}
			}
		}
	}
	return cp, nil
}

// write serializes the constant_pool_count and every entry.
func (cp *ConstPool) write(w io.Writer) error {
	if err := writeU16(w, uint16(len(cp.entries))); err != nil {
		return err
	}
	for i := 1; i < len(cp.entries); i++ {
		e := cp.entries[i]
		if e == nil {
			// filler slot after a Long/Double
			continue
		}
		if err := writeU8(w, e.Tag()); err != nil {
			return err
		}
		var err error
		switch v := e.(type) {
		case *Utf8Info:
			if err = writeU16(w, uint16(len(v.Value))); err == nil {
				_, err = w.Write([]byte(v.Value))
			}
		case *IntegerInfo:
			err = writeU32(w, uint32(v.Value))
		case *FloatInfo:
			err = writeU32(w, v.Bits)
		case *LongInfo:
			if err = writeU32(w, uint32(uint64(v.Value)>>32)); err == nil {
				err = writeU32(w, uint32(uint64(v.Value)))
			}
		case *DoubleInfo:
			if err = writeU32(w, uint32(v.Bits>>32)); err == nil {
				err = writeU32(w, uint32(v.Bits))
			}
		case *ClassInfo:
			err = writeU16(w, v.NameIndex)
		case *StringInfo:
			err = writeU16(w, v.StringIndex)
		case *FieldrefInfo:
			if err = writeU16(w, v.ClassIndex); err == nil {
				err = writeU16(w, v.NameAndTypeIndex)
			}
		case *MethodrefInfo:
			if err = writeU16(w, v.ClassIndex); err == nil {
				err = writeU16(w, v.NameAndTypeIndex)
			}
		case *InterfaceMethodrefInfo:
			if err = writeU16(w, v.ClassIndex); err == nil {
				err = writeU16(w, v.NameAndTypeIndex)
			}
		case *NameAndTypeInfo:
			if err = writeU16(w, v.NameIndex); err == nil {
				err = writeU16(w, v.DescriptorIndex)
			}
		case *MethodHandleInfo:
			if err = writeU8(w, v.ReferenceKind); err == nil {
				err = writeU16(w, v.ReferenceIndex)
			}
		case *MethodTypeInfo:
			err = writeU16(w, v.DescriptorIndex)
		case *DynamicInfo:
			if err = writeU16(w, v.BootstrapMethodAttrIndex); err == nil {
				err = writeU16(w, v.NameAndTypeIndex)
			}
		case *InvokeDynamicInfo:
			if err = writeU16(w, v.BootstrapMethodAttrIndex); err == nil {
				err = writeU16(w, v.NameAndTypeIndex)
			}
		case *ModuleInfo:
			err = writeU16(w, v.NameIndex)
		case *PackageInfo:
			err = writeU16(w, v.NameIndex)
		default:
			err = fmt.Errorf("unsupported constant pool entry %T", e)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
