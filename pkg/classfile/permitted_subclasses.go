package classfile

import (
	"io"
)

// PermittedSubclassesTag is the name of the PermittedSubclasses attribute.
const PermittedSubclassesTag = "PermittedSubclasses"

// PermittedSubclassesAttribute lists the classes permitted to extend a
// sealed class.
//
// Body layout:
//
//	u2 number_of_classes
//	u2 classes[number_of_classes]   // constant pool Class indices
type PermittedSubclassesAttribute struct {
	cp      *ConstPool
	classes []uint16
}

// NewPermittedSubclassesAttribute creates an empty attribute bound to cp.
func NewPermittedSubclassesAttribute(cp *ConstPool) *PermittedSubclassesAttribute {
	cp.AddUtf8(PermittedSubclassesTag)
	return &PermittedSubclassesAttribute{cp: cp}
}

func decodePermittedSubclasses(cp *ConstPool, nameIndex uint16, body []byte) (AttributeInfo, error) {
	r := NewReader(body)
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	classes := make([]uint16, 0, n)
	for i := 0; i < int(n); i++ {
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		classes = append(classes, idx)
	}
	return &PermittedSubclassesAttribute{cp: cp, classes: classes}, nil
}

func (a *PermittedSubclassesAttribute) Name() string {
	return PermittedSubclassesTag
}

// PermittedSubclasses resolves the stored indices to internal-form class
// names, in insertion order.
func (a *PermittedSubclassesAttribute) PermittedSubclasses() ([]string, error) {
	names := make([]string, 0, len(a.classes))
	for _, idx := range a.classes {
		name, err := a.cp.ClassName(idx)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// AddClass appends a permitted subclass. The name may be in dot or slash
// form; it is stored in internal form. Adding a class whose name is already
// present is a no-op, compared by resolved name so duplicate pool entries
// for the same class count as one.
func (a *PermittedSubclassesAttribute) AddClass(name string) error {
	internal := ToInternalName(name)
	existing, err := a.PermittedSubclasses()
	if err != nil {
		return err
	}
	for _, have := range existing {
		if have == internal {
			return nil
		}
	}
	a.classes = append(a.classes, a.cp.AddClass(internal))
	return nil
}

// Write serializes the attribute with its u2 name index and u4 length
// framing. Every stored class is re-resolved and re-interned into the
// current pool, so the output stays consistent after pool mutation.
func (a *PermittedSubclassesAttribute) Write(w io.Writer) error {
	body := make([]byte, 2+2*len(a.classes))
	putU16(body, 0, uint16(len(a.classes)))
	for i, idx := range a.classes {
		name, err := a.cp.ClassName(idx)
		if err != nil {
			return err
		}
		putU16(body, 2+2*i, a.cp.AddClass(name))
	}
	if err := writeU16(w, a.cp.AddUtf8(PermittedSubclassesTag)); err != nil {
		return err
	}
	if err := writeU32(w, uint32(len(body))); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// RenameClass replaces every entry naming oldName with the pool index for
// newName. The replacement list is computed in full before it is committed,
// so a resolution failure leaves the attribute unchanged.
func (a *PermittedSubclassesAttribute) RenameClass(oldName, newName string) error {
	renamed := make([]uint16, 0, len(a.classes))
	for _, idx := range a.classes {
		name, err := a.cp.ClassName(idx)
		if err != nil {
			return err
		}
		if name == oldName {
			renamed = append(renamed, a.cp.AddClass(newName))
		} else {
			renamed = append(renamed, idx)
		}
	}
	a.classes = renamed
	return nil
}

// CopyTo re-interns every stored class name into newPool, re-applying the
// AddClass deduplication rule there. The classnames map is not consulted:
// permitted-subclass entries are plain class names and renames are applied
// separately via RenameClass, matching the whole-file rename path.
func (a *PermittedSubclassesAttribute) CopyTo(newPool *ConstPool, classnames map[string]string) (AttributeInfo, error) {
	attr := NewPermittedSubclassesAttribute(newPool)
	for _, idx := range a.classes {
		name, err := a.cp.ClassName(idx)
		if err != nil {
			return nil, err
		}
		if err := attr.AddClass(name); err != nil {
			return nil, err
		}
	}
	return attr, nil
}
