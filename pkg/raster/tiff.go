package raster

import(
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
)

// TIFF tag numbers we write or look for.
const(
	tagImageWidth       = 256
	tagImageLength      = 257
	tagBitsPerSample    = 258
	tagCompression      = 259
	tagPhotometric      = 262
	tagStripOffsets     = 273
	tagSamplesPerPixel  = 277
	tagRowsPerStrip     = 278
	tagStripByteCounts  = 279
	tagPlanarConfig     = 284
	tagExtraSamples     = 338
)

// geoTags are carried from a loaded TIFF to any TIFF it is saved as:
// the GeoTIFF georeferencing tags, plus GDAL's metadata and nodata.
var geoTags = map[uint16]string{
	33550: "ModelPixelScale",
	33922: "ModelTiepoint",
	34264: "ModelTransformation",
	34735: "GeoKeyDirectory",
	34736: "GeoDoubleParams",
	34737: "GeoAsciiParams",
	42112: "GDAL_METADATA",
	42113: "GDAL_NODATA",
}

// TIFF field types, and the size of one value of each.
const(
	typeShort     = 3
	typeLong      = 4
	typeRational  = 5
	typeSRational = 10
)

var typeSizes = map[uint16]int{
	1: 1, 2: 1, 3: 2, 4: 4, 5: 8, 6: 1, 7: 1, 8: 2, 9: 4, 10: 8, 11: 4, 12: 8,
}

// A Tag is a raw TIFF directory entry. Data holds Count values of Type,
// always little-endian, whatever the byte order of the file it came from.
type Tag struct {
	ID      uint16
	Type    uint16
	Count   uint32
	Data  []byte
}

func (t Tag)String() string {
	name := geoTags[t.ID]
	if name == "" {
		name = fmt.Sprintf("tag%d", t.ID)
	}
	return fmt.Sprintf("%s[%d]", name, t.Count)
}

// Uints decodes the values of a SHORT or LONG tag.
func (t Tag)Uints() []uint32 {
	vals := []uint32{}
	for i:=0; i<int(t.Count); i++ {
		switch t.Type {
		case typeShort: vals = append(vals, uint32(binary.LittleEndian.Uint16(t.Data[i*2:])))
		case typeLong:  vals = append(vals, binary.LittleEndian.Uint32(t.Data[i*4:]))
		}
	}
	return vals
}

// ReadTags returns every entry of the first image directory of a
// classic (not Big) TIFF.
func ReadTags(r io.ReaderAt) ([]Tag, error) {
	header := make([]byte, 8)
	if _, err := r.ReadAt(header, 0); err != nil {
		return nil, fmt.Errorf("tiff header: %v", err)
	}

	var order binary.ByteOrder
	switch string(header[:2]) {
	case "II": order = binary.LittleEndian
	case "MM": order = binary.BigEndian
	default:
		return nil, fmt.Errorf("tiff header: bad byte order %q", header[:2])
	}
	if order.Uint16(header[2:]) != 42 {
		return nil, fmt.Errorf("tiff header: not a classic TIFF")
	}

	ifd := int64(order.Uint32(header[4:]))
	countBuf := make([]byte, 2)
	if _, err := r.ReadAt(countBuf, ifd); err != nil {
		return nil, fmt.Errorf("tiff IFD at %d: %v", ifd, err)
	}
	n := int(order.Uint16(countBuf))

	entries := make([]byte, 12*n)
	if _, err := r.ReadAt(entries, ifd+2); err != nil {
		return nil, fmt.Errorf("tiff IFD at %d: %v", ifd, err)
	}

	tags := []Tag{}
	for i:=0; i<n; i++ {
		e := entries[i*12 : (i+1)*12]
		t := Tag{ID: order.Uint16(e[0:]), Type: order.Uint16(e[2:]), Count: order.Uint32(e[4:])}

		size, known := typeSizes[t.Type]
		if !known {
			continue // readers must skip types they don't know
		}
		t.Data = make([]byte, size*int(t.Count))
		if len(t.Data) <= 4 {
			copy(t.Data, e[8:])
		} else if _, err := r.ReadAt(t.Data, int64(order.Uint32(e[8:]))); err != nil {
			return nil, fmt.Errorf("tiff tag %d: %v", t.ID, err)
		}

		if order == binary.BigEndian {
			swapToLittle(t.Type, t.Data)
		}
		tags = append(tags, t)
	}

	return tags, nil
}

// ReadGeoTags returns just the georeferencing tags of a TIFF.
func ReadGeoTags(r io.ReaderAt) ([]Tag, error) {
	tags, err := ReadTags(r)
	if err != nil {
		return nil, err
	}
	geo := []Tag{}
	for _, t := range tags {
		if _, exists := geoTags[t.ID]; exists {
			geo = append(geo, t)
		}
	}
	return geo, nil
}

// swapToLittle reverses the bytes of each value in a big-endian tag.
// Rationals are two LONGs, swapped separately.
func swapToLittle(typ uint16, data []byte) {
	size := typeSizes[typ]
	if typ == typeRational || typ == typeSRational {
		size = 4
	}
	if size < 2 {
		return
	}
	for i:=0; i+size<=len(data); i+=size {
		v := data[i : i+size]
		for a, b := 0, size-1; a < b; a, b = a+1, b-1 {
			v[a], v[b] = v[b], v[a]
		}
	}
}

func shortTag(id uint16, vals ...uint16) Tag {
	t := Tag{ID: id, Type: typeShort, Count: uint32(len(vals)), Data: make([]byte, 2*len(vals))}
	for i, v := range vals {
		binary.LittleEndian.PutUint16(t.Data[i*2:], v)
	}
	return t
}

func longTag(id uint16, vals ...uint32) Tag {
	t := Tag{ID: id, Type: typeLong, Count: uint32(len(vals)), Data: make([]byte, 4*len(vals))}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(t.Data[i*4:], v)
	}
	return t
}

// encodeTIFF writes the raster as a little-endian, single strip,
// deflate compressed TIFF with exactly Bands samples per pixel (plus
// one if there's an alpha plane), and the raster's GeoTags.
func encodeTIFF(w io.Writer, im *Image) error {
	g := im.grid

	var photometric uint16
	switch g.Bands {
	case 1: photometric = 1  // BlackIsZero
	case 3: photometric = 2  // RGB
	default:
		return fmt.Errorf("tiff: can't write %d band rasters", g.Bands)
	}
	if g.Bands == 1 && im.Alpha != nil {
		return fmt.Errorf("tiff: can't write gray rasters with alpha")
	}

	samples := g.Bands
	if im.Alpha != nil {
		samples++
	}
	bytesPerSample := g.Depth / 8

	// Pixel data, interleaved, then deflated
	raw := make([]byte, 0, g.NumPixels()*samples*bytesPerSample)
	put := func(v uint16) {
		if bytesPerSample == 1 {
			raw = append(raw, uint8(v))
		} else {
			raw = binary.LittleEndian.AppendUint16(raw, v)
		}
	}
	for y:=0; y<g.Height; y++ {
		for x:=0; x<g.Width; x++ {
			for _, v := range im.Pixel(x, y) {
				put(v)
			}
			if im.Alpha != nil {
				put(im.AlphaAt(x, y))
			}
		}
	}

	var strip bytes.Buffer
	zw := zlib.NewWriter(&strip)
	if _, err := zw.Write(raw); err != nil {
		return fmt.Errorf("tiff deflate: %v", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("tiff deflate: %v", err)
	}
	stripLen := strip.Len()
	if stripLen % 2 == 1 {
		strip.WriteByte(0) // IFD must start on a word boundary
	}

	bits := make([]uint16, samples)
	for i := range bits {
		bits[i] = uint16(g.Depth)
	}

	const stripOffset = 8
	tags := []Tag{
		longTag(tagImageWidth, uint32(g.Width)),
		longTag(tagImageLength, uint32(g.Height)),
		shortTag(tagBitsPerSample, bits...),
		shortTag(tagCompression, 8), // Adobe deflate
		shortTag(tagPhotometric, photometric),
		longTag(tagStripOffsets, stripOffset),
		shortTag(tagSamplesPerPixel, uint16(samples)),
		longTag(tagRowsPerStrip, uint32(g.Height)),
		longTag(tagStripByteCounts, uint32(stripLen)),
		shortTag(tagPlanarConfig, 1),
	}
	if im.Alpha != nil {
		extra := uint16(2) // unassociated
		if im.Premultiplied {
			extra = 1
		}
		tags = append(tags, shortTag(tagExtraSamples, extra))
	}
	for _, t := range im.GeoTags {
		if _, exists := geoTags[t.ID]; exists {
			tags = append(tags, t)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })

	// Layout: header, strip, IFD, then the values too big to sit in the IFD
	ifdOffset := stripOffset + strip.Len()
	valuesOffset := ifdOffset + 2 + 12*len(tags) + 4

	var ifd, values bytes.Buffer
	le := binary.LittleEndian
	ifd.Write(le.AppendUint16(nil, uint16(len(tags))))
	for _, t := range tags {
		e := make([]byte, 12)
		le.PutUint16(e[0:], t.ID)
		le.PutUint16(e[2:], t.Type)
		le.PutUint32(e[4:], t.Count)
		if len(t.Data) <= 4 {
			copy(e[8:], t.Data)
		} else {
			le.PutUint32(e[8:], uint32(valuesOffset + values.Len()))
			values.Write(t.Data)
			if values.Len() % 2 == 1 {
				values.WriteByte(0)
			}
		}
		ifd.Write(e)
	}
	ifd.Write([]byte{0, 0, 0, 0}) // no next IFD

	header := []byte{'I', 'I', 42, 0}
	header = le.AppendUint32(header, uint32(ifdOffset))

	for _, b := range [][]byte{header, strip.Bytes(), ifd.Bytes(), values.Bytes()} {
		if _, err := w.Write(b); err != nil {
			return fmt.Errorf("tiff write: %v", err)
		}
	}
	return nil
}
