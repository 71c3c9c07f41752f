// Package dicom provides functions and data structures for reading and writing DICOM Data Sets.
// The package provides a high level and low level API for parsing and writing the DICOM format.
// The high level API consists of functions such as Parse and Construct which operate on DICOM
// Data Elements buffered into memory as a DataSet. The low level API consists of the
// DataElementIterator and the DataElementWriter which operate on top level DataElements one at a
// time.
//
// Values are held by a closed set of Value types: ByteString for the string VRs, Numbers for the
// binary number VRs, Bytes for OB and UN, Sequence for SQ and PixelSequence for encapsulated
// Pixel Data. String values keep the bytes read from the stream and are split into values
// according to the Specific Character Set in effect, so a multi-byte character whose trailing
// byte is a backslash is not mistaken for a value delimiter.
//
// VRs of implicit VR streams are resolved with a Dictionary, by default the standard dictionary
// built from the embedded data dictionary and the files named by DCMDICTPATH. Compressed Pixel
// Data is decoded by Codecs, which the hosting application registers in a CodecRegistry.
package dicom
