// Package classfile reads and writes JVM class files with a focus on the
// PermittedSubclasses and Record attributes, the constant pool they index
// into, and the rename/copy operations that keep symbolic class references
// consistent when classes are renamed or attributes are moved between
// pools.
//
// # Attribute Format
//
// Every attribute is self-framed on the wire (big-endian):
//
//	u2 attribute_name_index
//	u4 attribute_length
//	u1 info[attribute_length]
//
// PermittedSubclasses body:
//
//	u2 number_of_classes
//	u2 classes[number_of_classes]   // constant pool Class indices
//
// Record body:
//
//	u2 components_count
//	component[components_count]:
//	    u2 name_index
//	    u2 descriptor_index
//	    u2 attributes_count
//	    attribute[attributes_count]  // recursively self-framed
//
// Attribute entities store constant pool indices, not resolved strings.
// Every name-level operation (deduplication, renaming, copying) resolves
// through the pool the attribute is bound to, so the same logical class is
// recognized even when a parsed pool carries duplicate entries for it.
//
// # Dispatch
//
// ReadAttribute resolves the attribute name and dispatches to a registered
// decoder. Unrecognized names produce an OpaqueAttribute that retains the
// body verbatim, so unknown attribute kinds round-trip losslessly. A
// malformed body of a recognized attribute aborts the whole decode; only
// unknown names take the keep-and-continue path.
//
// # Renaming and Copying
//
// RenameClass rewrites references to a single class in place, interning
// rewritten descriptors into the bound pool. CopyTo produces a fully
// independent attribute bound to a new pool, applying an old→new class
// name map to descriptor and signature strings as it re-interns them.
// Class names use internal slash-separated form throughout; AddClass
// accepts dot form and normalizes it on insertion.
//
// # Error Handling
//
// Decode errors surface immediately: ErrTruncated when a body is shorter
// than its declared counts require, ErrUnresolvedIndex when a stored index
// has no matching pool entry. No partial results are returned.
//
// # Thread Safety
//
// Nothing here is safe for concurrent mutation. The constant pool is
// treated as exclusively owned by a single mutation thread for the
// duration of any parse, rename or copy. CopyTo produces a disjoint graph
// bound to a different pool, which is the supported way to hand data to
// another goroutine.
package classfile
