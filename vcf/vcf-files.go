package vcf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rgenomicsetl/htscan/internal"
	"github.com/rgenomicsetl/htscan/utils"
)

const (
	descriptionKey = "Description"
	idKey          = "ID"
	numberKey      = "Number"
	typeKey        = "Type"
)

// ParseMetaField parses a VCF meta field
func (sc *StringScanner) ParseMetaField() (key, value string) {
	if sc.err != nil {
		return
	}
	sc.SkipSpace()
	start := sc.index
	for ; sc.index < len(sc.data); sc.index++ {
		if c := sc.data[sc.index]; (c == ' ') || (c == '=') {
			break
		}
	}
	key = sc.data[start:sc.index]
	sc.SkipSpace()
	if sc.index >= len(sc.data) || sc.data[sc.index] != '=' {
		if sc.err == nil {
			sc.err = fmt.Errorf("invalid key=value pair in a VCF meta-information line: %v", sc.data)
		}
		return
	}
	sc.index++
	start = sc.index
	if sc.index < len(sc.data) && sc.data[sc.index] == '"' {
		start++
		sc.index++
		var buf strings.Builder
		for ; sc.index < len(sc.data); sc.index++ {
			switch sc.data[sc.index] {
			case '"':
				sc.index++
				return key, buf.String()
			case '\\':
				sc.index++
			}
			_ = buf.WriteByte(sc.data[sc.index])
		}
		sc.index = len(sc.data)
		if sc.err == nil {
			sc.err = fmt.Errorf("missing closing \" in a VCF meta-information line: %v", sc.data)
		}
		return key, buf.String()
	}
	for ; sc.index < len(sc.data); sc.index++ {
		if c := sc.data[sc.index]; (c == ' ') || (c == ',') || (c == '>') {
			return key, sc.data[start:sc.index]
		}
	}
	if sc.err == nil {
		sc.err = fmt.Errorf("missing closing > in a VCF meta-information line: %v", sc.data)
	}
	return key, sc.data[start:]
}

// ParseMetaInformation parses VCF meta information
func (sc *StringScanner) ParseMetaInformation() interface{} {
	if sc.err != nil {
		return nil
	}
	if sc.index >= len(sc.data) || sc.data[sc.index] != '<' {
		start := sc.index
		sc.index = len(sc.data)
		return sc.data[start:]
	}
	sc.index++
	meta := NewMetaInformation()
	for {
		key, value := sc.ParseMetaField()
		switch key {
		case idKey:
			if meta.ID != nil {
				if sc.err == nil {
					sc.err = fmt.Errorf("multiple IDs in a VCF meta-information line: %v", sc.data)
				}
			} else {
				meta.ID = utils.Intern(value)
			}
		case descriptionKey:
			if meta.Description != "" {
				if sc.err == nil {
					sc.err = fmt.Errorf("multiple Descriptions in a VCF meta-information line: %v", sc.data)
				}
			} else {
				meta.Description = value
			}
		default:
			if !meta.Fields.SetUniqueEntry(key, value) {
				if sc.err == nil {
					sc.err = fmt.Errorf("duplicate field key %v in a VCF meta-information line: %v", key, sc.data)
				}
			}
		}
		if sc.err != nil {
			break
		}
		sc.SkipSpace()
		if sc.index >= len(sc.data) {
			if sc.err == nil {
				sc.err = fmt.Errorf("invalid syntax in a VCF meta-information line: %v", sc.data)
			}
			break
		}
		if c := sc.data[sc.index]; c == ',' {
			sc.index++
			continue
		} else if c == '>' {
			sc.index++
			break
		}
		if sc.err == nil {
			sc.err = fmt.Errorf("invalid syntax in a VCF meta-information line: %v", sc.data)
		}
		break
	}
	if meta.ID == nil {
		if sc.err == nil {
			sc.err = fmt.Errorf("missing ID in a VCF meta-information line: %v", sc.data)
		}
	}
	return meta
}

// ParseFormatInformation parses an INFO or FORMAT meta-information
// line.
func (sc *StringScanner) ParseFormatInformation() *FormatInformation {
	if sc.err != nil {
		return nil
	}
	if sc.index >= len(sc.data) || sc.data[sc.index] != '<' {
		sc.err = fmt.Errorf("missing open angle bracket in a VCF INFO/FORMAT meta-information line: %v", sc.data)
		return nil
	}
	sc.index++
	format := NewFormatInformation()
	for {
		key, value := sc.ParseMetaField()
		switch key {
		case idKey:
			if format.ID != nil {
				if sc.err == nil {
					sc.err = fmt.Errorf("multiple IDs in a VCF INFO/FORMAT meta-information line: %v", sc.data)
				}
			} else {
				format.ID = utils.Intern(value)
			}
		case descriptionKey:
			if format.Description != "" {
				if sc.err == nil {
					sc.err = fmt.Errorf("multiple Descriptions in a VCF INFO/FORMAT meta-information line: %v", sc.data)
				}
			} else {
				format.Description = value
			}
		case numberKey:
			if format.Number > InvalidNumber {
				if sc.err == nil {
					sc.err = fmt.Errorf("multiple Number entries in a VCF INFO/FORMAT meta-information line: %v", sc.data)
				}
			} else {
				switch value {
				case "a", "A":
					format.Number = NumberA
				case "r", "R":
					format.Number = NumberR
				case "g", "G":
					format.Number = NumberG
				case ".":
					format.Number = NumberDot
				default:
					n, err := strconv.ParseInt(value, 10, 32)
					if err != nil {
						if sc.err == nil {
							sc.err = err
						}
					} else {
						format.Number = int32(n)
					}
				}
			}
		case typeKey:
			if format.Type != InvalidType {
				if sc.err == nil {
					sc.err = fmt.Errorf("multiple Types in a VCF INFO/FORMAT meta-information line: %v", sc.data)
				}
			} else {
				switch value {
				case "Integer":
					format.Type = Integer
				case "Float":
					format.Type = Float
				case "Flag":
					format.Type = Flag
				case "Character":
					format.Type = Character
				case "String":
					format.Type = String
				default:
					if sc.err == nil {
						sc.err = fmt.Errorf("unknown Type in a VCF INFO/FORMAT meta-information line: %v", sc.data)
					}
				}
			}
		default:
			if !format.Fields.SetUniqueEntry(key, value) {
				if sc.err == nil {
					sc.err = fmt.Errorf("duplicate field key %v in a VCF meta-information line: %v", key, sc.data)
				}
			}
		}
		if sc.err != nil {
			break
		}
		sc.SkipSpace()
		if sc.index >= len(sc.data) {
			if sc.err == nil {
				sc.err = fmt.Errorf("invalid syntax in a VCF INFO/FORMAT meta-information line: %v", sc.data)
			}
			break
		}
		if c := sc.data[sc.index]; c == ',' {
			sc.index++
			continue
		} else if c == '>' {
			sc.index++
			break
		}
		if sc.err == nil {
			sc.err = fmt.Errorf("invalid syntax in a VCF INFO/FORMAT meta-information line: %v", sc.data)
		}
		break
	}
	if format.ID == nil {
		if sc.err == nil {
			sc.err = fmt.Errorf("missing ID in a VCF INFO/FORMAT meta-information line: %v", sc.data)
		}
	}
	if format.Number <= InvalidNumber {
		if sc.err == nil {
			sc.err = fmt.Errorf("missing Number entry in a VCF INFO/FORMAT meta-information line: %v", sc.data)
		}
	}
	if format.Type == InvalidType {
		if sc.err == nil {
			sc.err = fmt.Errorf("missing Type in a VCF INFO/FORMAT meta-information line: %v", sc.data)
		}
	}
	return format
}

func getLine(reader *bufio.Reader) (line string, err error) {
	line, err = reader.ReadString('\n')
	switch {
	case err == nil:
		line = line[:len(line)-1]
	case err == io.EOF:
		err = nil
	}
	return
}

/*
ParseHeader parses a VCF header. It consumes everything up to and
including the #CHROM column header line, and leaves the first data
line in the reader.
*/
func ParseHeader(reader *bufio.Reader) (hdr *Header, lines int, err error) {
	line, err := getLine(reader)
	if err != nil {
		return nil, 0, err
	}
	lines++
	if len(line) < len(fileFormatVersionLinePrefix) ||
		line[:len(fileFormatVersionLinePrefix)] != fileFormatVersionLinePrefix {
		return nil, 0, errors.New("invalid first line in a VCF file")
	}
	hdr = NewHeader()
	hdr.FileFormat = line
	var sc StringScanner
	for {
		if data, e := reader.Peek(1); (e != nil) || (data[0] != '#') {
			return nil, 0, errors.New("unexpected end of VCF header")
		}
		_, _ = reader.ReadByte()
		if data, e := reader.Peek(1); e != nil {
			return nil, 0, errors.New("unexpected end of VCF header")
		} else if data[0] != '#' {
			break
		}
		_, _ = reader.ReadByte()
		line, err = getLine(reader)
		if err != nil {
			return nil, 0, err
		}
		lines++
		sc.Reset(line)
		if key, found := sc.readUntilByte('='); !found {
			return nil, 0, errors.New("invalid syntax in a VCF header")
		} else if key == "fileformat" {
			return nil, 0, errors.New("multiple file format meta-information lines in a VCF file")
		} else if key == "INFO" {
			hdr.Infos = append(hdr.Infos, sc.ParseFormatInformation())
		} else if key == "FORMAT" {
			hdr.Formats = append(hdr.Formats, sc.ParseFormatInformation())
		} else {
			hdr.Meta[key] = append(hdr.Meta[key], sc.ParseMetaInformation())
		}
		if sc.err != nil {
			return nil, 0, sc.err
		}
	}
	line, err = getLine(reader)
	if err != nil {
		return nil, 0, err
	}
	lines++
	sc.Reset(line)
	for sc.Len() > 0 {
		column, _ := sc.readUntilByte('\t')
		hdr.Columns = append(hdr.Columns, column)
	}
	if sc.err != nil {
		return nil, 0, sc.err
	}
	return hdr, lines, nil
}

// FieldParser is an abstraction for parsing VCF fields
type FieldParser func(*StringScanner) interface{}

func make1InfoParser(entryParser FieldParser) FieldParser {
	return func(sc *StringScanner) (result interface{}) {
		sc.SkipSpace()
		if (sc.index >= len(sc.data)) || (sc.data[sc.index] != '=') {
			if sc.err == nil {
				sc.err = fmt.Errorf("missing = in a VCF INFO entry: %v", sc.data)
			}
			return nil
		}
		sc.index++
		sc.SkipSpace()
		result = entryParser(sc)
		sc.SkipSpace()
		return
	}
}

func makeNInfoParser(entryParser FieldParser) FieldParser {
	return func(sc *StringScanner) interface{} {
		sc.SkipSpace()
		if (sc.index >= len(sc.data)) || (sc.data[sc.index] != '=') {
			if sc.err == nil {
				sc.err = fmt.Errorf("missing = in a VCF INFO entry: %v", sc.data)
			}
			return nil
		}
		sc.index++
		sc.SkipSpace()
		var result []interface{}
		for sc.err == nil {
			result = append(result, entryParser(sc))
			sc.SkipSpace()
			if (sc.index >= len(sc.data)) || (sc.data[sc.index] != ',') {
				break
			}
			sc.index++
		}
		return result
	}
}

var endOfInfoEntry = []byte{' ', ',', ';', '\t'}

// ParseGenericInfo parses a VCF INFO entry without specific format
// information.
func (sc *StringScanner) ParseGenericInfo() interface{} {
	if sc.err != nil {
		return nil
	}
	sc.SkipSpace()
	if (sc.index < len(sc.data)) && (sc.data[sc.index] == '=') {
		var result []interface{}
		sc.index++
		sc.SkipSpace()
		for sc.err == nil {
			result = append(result, sc.readUntilBytes(endOfInfoEntry))
			sc.SkipSpace()
			if (sc.index >= len(sc.data)) || (sc.data[sc.index] != ',') {
				break
			}
			sc.index++
		}
		return result
	}
	return true
}

// ParseInfoInteger parses an integer in a VCF INFO entry.
func (sc *StringScanner) ParseInfoInteger() interface{} {
	i, err := strconv.ParseInt(sc.readUntilBytes(endOfInfoEntry), 10, 32)
	if err != nil {
		if sc.err == nil {
			sc.err = err
		}
		return nil
	}
	return int(i)
}

// ParseInfoFloat parses a floating point number in a VCF INFO entry.
func (sc *StringScanner) ParseInfoFloat() interface{} {
	f, err := strconv.ParseFloat(sc.readUntilBytes(endOfInfoEntry), 64)
	if err != nil {
		if sc.err == nil {
			sc.err = err
		}
		return nil
	}
	return f
}

// ParseInfoFlag parses a boolean flag in a VCF INFO entry (always
// returns true).
func (sc *StringScanner) ParseInfoFlag() interface{} {
	sc.SkipSpace()
	return true
}

// ParseInfoCharacter parses a rune in a VCF INFO entry.
func (sc *StringScanner) ParseInfoCharacter() interface{} {
	if sc.err != nil {
		return nil
	}
	if sc.index >= len(sc.data) {
		sc.err = errors.New("missing Character entry in a VCF INFO entry")
		return nil
	}
	if ch := sc.data[sc.index]; ch < utf8.RuneSelf {
		sc.index++
		return rune(ch)
	}
	r, size := utf8.DecodeRuneInString(sc.data[sc.index:])
	if r == utf8.RuneError {
		if sc.err == nil {
			sc.err = errors.New("invalid rune encountered in a VCF INFO entry")
		}
	}
	sc.index += size
	return r
}

// ParseInfoString parses a string in a VCF INFO entry.
func (sc *StringScanner) ParseInfoString() interface{} {
	return sc.readUntilBytes(endOfInfoEntry)
}

// CreateInfoParser creates a specific VCF INFO entry parser for the
// given format information.
func CreateInfoParser(format *FormatInformation) (FieldParser, error) {
	if format.Type == Flag {
		if format.Number != 0 {
			return nil, errors.New("INFO Type Flag with Number != 0")
		}
		return (*StringScanner).ParseInfoFlag, nil
	}
	if format.Number == 1 {
		switch format.Type {
		case Integer:
			return make1InfoParser((*StringScanner).ParseInfoInteger), nil
		case Float:
			return make1InfoParser((*StringScanner).ParseInfoFloat), nil
		case Character:
			return make1InfoParser((*StringScanner).ParseInfoCharacter), nil
		case String:
			return make1InfoParser((*StringScanner).ParseInfoString), nil
		default:
			return nil, errors.New("invalid INFO Type")
		}
	}
	switch format.Type {
	case Integer:
		return makeNInfoParser((*StringScanner).ParseInfoInteger), nil
	case Float:
		return makeNInfoParser((*StringScanner).ParseInfoFloat), nil
	case Character:
		return makeNInfoParser((*StringScanner).ParseInfoCharacter), nil
	case String:
		return makeNInfoParser((*StringScanner).ParseInfoString), nil
	default:
		return nil, errors.New("invalid INFO Type")
	}
}

var endOfFormatEntry = []byte{' ', ',', ':', '\t'}

// ParseGenericFormat parses a VCF FORMAT entry without specific
// format information.
func (sc *StringScanner) ParseGenericFormat() interface{} {
	if sc.err != nil {
		return nil
	}
	sc.SkipSpace()
	var result []interface{}
	for sc.err == nil {
		result = append(result, sc.readUntilBytes(endOfFormatEntry))
		sc.SkipSpace()
		if (sc.index >= len(sc.data)) || (sc.data[sc.index] != ',') {
			break
		}
		sc.index++
	}
	if len(result) == 1 {
		return result[0]
	}
	return result
}

// ParseFormatInteger parses an integer in a VCF FORMAT entry.
func (sc *StringScanner) ParseFormatInteger() interface{} {
	if sc.err != nil || sc.index >= len(sc.data) {
		return nil
	}
	if sc.data[sc.index] == '.' {
		sc.index++
		return nil
	}
	i, err := strconv.ParseInt(sc.readUntilBytes(endOfFormatEntry), 10, 32)
	if err != nil {
		if sc.err == nil {
			sc.err = err
		}
		return nil
	}
	return int(i)
}

func containsByte(b byte, bytes []byte) bool {
	for _, bb := range bytes {
		if b == bb {
			return true
		}
	}
	return false
}

// ParseFormatFloat parses a floating point number in a VCF FORMAT
// entry.
func (sc *StringScanner) ParseFormatFloat() interface{} {
	if sc.err != nil || sc.index >= len(sc.data) {
		return nil
	}
	if sc.data[sc.index] == '.' {
		next := sc.index + 1
		if (next >= len(sc.data)) || containsByte(sc.data[next], endOfFormatEntry) {
			sc.index = next
			return nil
		}
	}
	f, err := strconv.ParseFloat(sc.readUntilBytes(endOfFormatEntry), 64)
	if err != nil {
		if sc.err == nil {
			sc.err = err
		}
		return nil
	}
	return f
}

// ParseFormatCharacter parses a rune in a VCF FORMAT entry.
func (sc *StringScanner) ParseFormatCharacter() interface{} {
	if sc.err != nil || sc.index >= len(sc.data) {
		return nil
	}
	if ch := sc.data[sc.index]; ch < utf8.RuneSelf {
		sc.index++
		if ch == '.' {
			return nil
		}
		return rune(ch)
	}
	r, size := utf8.DecodeRuneInString(sc.data[sc.index:])
	if r == utf8.RuneError {
		if sc.err == nil {
			sc.err = errors.New("invalid rune encountered in a VCF FORMAT entry")
		}
	}
	sc.index += size
	return r
}

// ParseFormatString parses a string in a VCF FORMAT entry.
func (sc *StringScanner) ParseFormatString() interface{} {
	if sc.err != nil || sc.index >= len(sc.data) {
		return nil
	}
	if sc.data[sc.index] == '.' {
		next := sc.index + 1
		if (next >= len(sc.data)) || containsByte(sc.data[next], endOfFormatEntry) {
			sc.index = next
			return nil
		}
	}
	return sc.readUntilBytes(endOfFormatEntry)
}

func make1FormatParser(entryParser FieldParser) FieldParser {
	return func(sc *StringScanner) (result interface{}) {
		sc.SkipSpace()
		result = entryParser(sc)
		sc.SkipSpace()
		return
	}
}

func makeNFormatParser(entryParser FieldParser) FieldParser {
	return func(sc *StringScanner) interface{} {
		sc.SkipSpace()
		var result []interface{}
		for sc.err == nil {
			result = append(result, entryParser(sc))
			sc.SkipSpace()
			if (sc.index >= len(sc.data)) || (sc.data[sc.index] != ',') {
				break
			}
			sc.index++
		}
		return result
	}
}

// CreateFormatParser creates a specific VCF FORMAT entry parser for
// the given format information.
func CreateFormatParser(format *FormatInformation) (FieldParser, error) {
	if format.Number == 1 {
		switch format.Type {
		case Integer:
			return make1FormatParser((*StringScanner).ParseFormatInteger), nil
		case Float:
			return make1FormatParser((*StringScanner).ParseFormatFloat), nil
		case Character:
			return make1FormatParser((*StringScanner).ParseFormatCharacter), nil
		case String:
			return make1FormatParser((*StringScanner).ParseFormatString), nil
		default:
			return nil, errors.New("invalid FORMAT Type")
		}
	}
	switch format.Type {
	case Integer:
		return makeNFormatParser((*StringScanner).ParseFormatInteger), nil
	case Float:
		return makeNFormatParser((*StringScanner).ParseFormatFloat), nil
	case Character:
		return makeNFormatParser((*StringScanner).ParseFormatCharacter), nil
	case String:
		return makeNFormatParser((*StringScanner).ParseFormatString), nil
	default:
		return nil, errors.New("invalid FORMAT Type")
	}
}

func (sc *StringScanner) missingEntry() bool {
	if (sc.err != nil) || (sc.index >= len(sc.data)) {
		return true
	}
	if sc.data[sc.index] == '.' {
		next := sc.index + 1
		if (next >= len(sc.data)) || (sc.data[next] == '\t') {
			sc.index = next + 1
			return true
		}
	}
	return false
}

func (sc *StringScanner) scanChar(ch byte) {
	if sc.err != nil {
		return
	}
	if (sc.index >= len(sc.data)) || (sc.data[sc.index] != ch) {
		sc.err = errors.New("missing tabulator in VCF data line")
	}
	sc.index++
}

func (sc *StringScanner) doString() string {
	if sc.missingEntry() {
		return "."
	}
	value, ok := sc.readUntilByte('\t')
	if !ok {
		if sc.err == nil {
			sc.err = errors.New("missing tabulator in VCF data line")
		}
		return ""
	}
	return value
}

func (sc *StringScanner) doInt32() int32 {
	if sc.missingEntry() {
		return -1
	}
	value, ok := sc.readUntilByte('\t')
	if !ok {
		if sc.err == nil {
			sc.err = errors.New("missing tabulator in VCF data line")
		}
		return -1
	}
	i, err := strconv.ParseInt(value, 10, 32)
	if (err != nil) && (sc.err == nil) {
		sc.err = err
	}
	return int32(i)
}

func (sc *StringScanner) doFloat() interface{} {
	if sc.missingEntry() {
		return nil
	}
	value, ok := sc.readUntilByte('\t')
	if !ok {
		if sc.err == nil {
			sc.err = errors.New("missing tabulator in VCF data line")
		}
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if (err != nil) && (sc.err == nil) {
		sc.err = err
	}
	return f
}

func (sc *StringScanner) doStringList(separator []byte) (result []string) {
	if sc.missingEntry() {
		return nil
	}
	for sc.err == nil {
		result = append(result, sc.readUntilBytes(separator))
		if (sc.index >= len(sc.data)) || (sc.data[sc.index] != separator[0]) {
			break
		}
		sc.index++
	}
	sc.scanChar('\t')
	return result
}

var (
	filterSeparator = []byte{';', '\t'}
	passList        = []utils.Symbol{PASS}
)

func (sc *StringScanner) doFilter() []utils.Symbol {
	if sc.missingEntry() {
		return nil
	}
	str := sc.readUntilBytes(filterSeparator)
	if str == "PASS" {
		sc.scanChar('\t')
		return passList
	}
	result := []utils.Symbol{utils.Intern(str)}
	for (sc.err == nil) && (sc.index < len(sc.data)) && (sc.data[sc.index] == ';') {
		sc.index++
		result = append(result, utils.Intern(sc.readUntilBytes(filterSeparator)))
	}
	sc.scanChar('\t')
	return result
}

var infoSeparator = []byte{' ', '=', ';', '\t'}

func (sc *StringScanner) doInfo(infoParsers utils.SmallMap) (result utils.SmallMap) {
	if sc.missingEntry() {
		return nil
	}
	for {
		sc.SkipSpace()
		key := utils.Intern(sc.readUntilBytes(infoSeparator))
		var value interface{}
		if parser, ok := infoParsers.Get(key); ok {
			value = parser.(FieldParser)(sc)
		} else {
			value = sc.ParseGenericInfo()
		}
		if sc.err != nil {
			return nil
		}
		result = append(result, utils.SmallMapEntry{Key: key, Value: value})
		sc.SkipSpace()
		if (sc.index >= len(sc.data)) || (sc.data[sc.index] != ';') {
			return result
		}
		sc.index++
	}
}

var formatSeparator = []byte{' ', ':', '\t'}

func (sc *StringScanner) doSymbolList() (result []utils.Symbol) {
	for {
		sc.SkipSpace()
		str := sc.readUntilBytes(formatSeparator)
		if sc.err != nil {
			return nil
		}
		result = append(result, utils.Intern(str))
		sc.SkipSpace()
		if (sc.index >= len(sc.data)) || (sc.data[sc.index] != ':') {
			return result
		}
		sc.index++
	}
}

// VariantParser is an optimized parser for VCF variant lines.
//
// NSamples can be decreased as necessary to parse fewer samples,
// including down to zero.
type VariantParser struct {
	InfoParsers, FormatParsers utils.SmallMap
	NSamples                   int
}

// NewVariantParser creates a VariantParser for the given VCF header.
func (hdr *Header) NewVariantParser() (*VariantParser, error) {
	var vp VariantParser
	for _, format := range hdr.Infos {
		parser, err := CreateInfoParser(format)
		if err != nil {
			return nil, err
		}
		vp.InfoParsers = append(vp.InfoParsers, utils.SmallMapEntry{Key: format.ID, Value: parser})
	}
	for _, format := range hdr.Formats {
		parser, err := CreateFormatParser(format)
		if err != nil {
			return nil, err
		}
		vp.FormatParsers = append(vp.FormatParsers, utils.SmallMapEntry{Key: format.ID, Value: parser})
	}
	vp.NSamples = len(hdr.Samples())
	return &vp, nil
}

var (
	idSeparator  = []byte{';', '\t'}
	altSeparator = []byte{',', '\t'}
)

// ParseVariant parses a VCF variant line
func (sc *StringScanner) ParseVariant(vp *VariantParser) *Variant {
	var variant Variant
	variant.Chrom = sc.doString()
	variant.Pos = sc.doInt32()
	variant.ID = sc.doStringList(idSeparator)
	variant.Ref = sc.doString()
	variant.Alt = sc.doStringList(altSeparator)
	variant.Qual = sc.doFloat()
	variant.Filter = sc.doFilter()
	variant.Info = sc.doInfo(vp.InfoParsers)
	if vp.NSamples > 0 {
		sc.scanChar('\t')
		variant.GenotypeFormat = sc.doSymbolList()
		parsers := make([]FieldParser, len(variant.GenotypeFormat))
		for p, format := range variant.GenotypeFormat {
			if parser, ok := vp.FormatParsers.Get(format); ok {
				parsers[p] = parser.(FieldParser)
			} else {
				parsers[p] = (*StringScanner).ParseGenericFormat
			}
		}
		for i := 0; i < vp.NSamples; i++ {
			sample := make(utils.SmallMap, 0, len(parsers))
			sc.scanChar('\t')
			for j := 0; j < len(parsers); j++ {
				key := variant.GenotypeFormat[j]
				value := parsers[j](sc)
				if sc.err != nil {
					return nil
				}
				sample = append(sample, utils.SmallMapEntry{Key: key, Value: value})
				if (sc.index >= len(sc.data)) || (sc.data[sc.index] != ':') {
					break
				}
				sc.index++
			}
			variant.GenotypeData = append(variant.GenotypeData, sample)
		}
	}
	if sc.err != nil {
		return nil
	}
	return &variant
}

/*
Open opens a VCF or BCF file for reading.

BCF files are decoded by piping them through bcftools view, which
also applies the region restriction when one is given. A region on a
bgzip-compressed VCF file is answered through tabix; the caller must
have verified that an index is present. Plain VCF files are read
directly, and any region restriction on them is the caller's
responsibility.
*/
func Open(name string, region string) (*internal.InputFile, error) {
	if filepath.Ext(internal.PlainBase(name)) == ".bcf" {
		if _, err := os.Stat(name); err != nil {
			return nil, err
		}
		args := []string{"view", name}
		if region != "" {
			args = append(args, "-r", region)
		}
		return internal.OpenPipe("bcftools", args...)
	}
	if region != "" && internal.PlainBase(name) != name {
		if _, err := os.Stat(name); err != nil {
			return nil, err
		}
		return internal.OpenPipe("tabix", "-h", name, region)
	}
	input, err := internal.OpenPlain(name)
	if err != nil {
		return nil, err
	}
	r, err := utils.HandleBGZF(input.Reader)
	if err != nil {
		input.Close()
		return nil, err
	}
	if _, ok := r.(*bufio.Reader); !ok {
		input.Wrap(r)
	}
	return input, nil
}
