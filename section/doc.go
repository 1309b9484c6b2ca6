// Package section defines the fixed-size header of the standard tree file layout.
//
// The header occupies the first HeaderSize bytes of a ".ot" file:
//
//	offset  size  field
//	0       2     options (magic number, endianness bit), always little-endian
//	2       1     value encoding width (0-4)
//	3       1     payload compression
//	4       1     tree kind
//	5       3     reserved, zero
//	8       8     resolution (float64)
//	16      8     node count
//	24      8     stored payload size
//	32      8     xxHash64 of the stored payload
//
// All multi-byte fields after the options word use the byte order selected by the
// endianness bit. The node payload that follows always stores quantized values
// little-endian.
package section
