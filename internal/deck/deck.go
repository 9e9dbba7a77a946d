package deck

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode"
)

// Deck is a parsed simulator input deck: the ordered keywords the
// catalogue knows about, with INCLUDE files spliced in place. Keywords
// outside the catalogue are skipped.
type Deck struct {
	Keywords []Keyword
}

// Keyword is one keyword occurrence with its records.
type Keyword struct {
	Name    string
	Def     Def
	Records []Record
	Line    int
}

// Record is one slash-terminated record, with repeats expanded.
type Record struct {
	Items []Item
	Line  int
}

// Item is one value of a record.
type Item struct {
	Text      string
	Quoted    bool
	Defaulted bool
}

// Empty reports whether the record carries no items (a lone slash).
func (r Record) Empty() bool {
	return len(r.Items) == 0
}

// ParseFile parses a deck from disk, resolving INCLUDE statements
// relative to the directory of the including file.
func ParseFile(path string) (*Deck, error) {
	return parseFile(path, 0)
}

// Parse parses deck text. INCLUDE statements are resolved relative to
// the current directory.
func Parse(input string) (*Deck, error) {
	return parse(input, ".", 0)
}

// maxIncludeDepth guards against include cycles.
const maxIncludeDepth = 20

func parseFile(path string, depth int) (*Deck, error) {
	if depth > maxIncludeDepth {
		return nil, fmt.Errorf("%w: %s", ErrIncludeDepth, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := parse(string(raw), filepath.Dir(path), depth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func parse(input, basedir string, depth int) (*Deck, error) {
	p := &parser{tokens: scan(input)}
	deck := &Deck{}
	for {
		kw, ok, err := p.nextKeyword()
		if err != nil {
			return nil, err
		}
		if !ok {
			return deck, nil
		}
		if kw.Name == "INCLUDE" {
			sub, err := includeDeck(kw, basedir, depth)
			if err != nil {
				return nil, err
			}
			deck.Keywords = append(deck.Keywords, sub.Keywords...)
			continue
		}
		deck.Keywords = append(deck.Keywords, kw)
	}
}

func includeDeck(kw Keyword, basedir string, depth int) (*Deck, error) {
	if len(kw.Records) == 0 || kw.Records[0].Empty() {
		return nil, fmt.Errorf("line %d: %w: INCLUDE without filename", kw.Line, ErrMalformedRecord)
	}
	name := kw.Records[0].Items[0].Text
	if !filepath.IsAbs(name) {
		name = filepath.Join(basedir, name)
	}
	return parseFile(name, depth+1)
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

// nextKeyword scans forward to the next catalogued keyword and reads its
// records according to its mode. Tokens belonging to unknown keywords are
// dropped.
func (p *parser) nextKeyword() (Keyword, bool, error) {
	for {
		t, ok := p.next()
		if !ok {
			return Keyword{}, false, nil
		}
		if t.slash || t.quoted || t.defmark {
			continue
		}
		def, known := Lookup(t.text)
		if !known {
			continue
		}
		kw := Keyword{Name: t.text, Def: def, Line: t.line}
		if err := p.readRecords(&kw); err != nil {
			return Keyword{}, false, err
		}
		if kw.Name == "END" {
			p.pos = len(p.tokens)
		}
		return kw, true, nil
	}
}

func (p *parser) readRecords(kw *Keyword) error {
	switch kw.Def.Mode {
	case ModeToggle:
		return nil
	case ModeSingle:
		rec, err := p.readRecord()
		if err != nil {
			return fmt.Errorf("keyword %s: %w", kw.Name, err)
		}
		kw.Records = append(kw.Records, rec)
		return nil
	case ModeList:
		for {
			rec, err := p.readRecord()
			if err != nil {
				return fmt.Errorf("keyword %s: %w", kw.Name, err)
			}
			if rec.Empty() {
				return nil
			}
			kw.Records = append(kw.Records, rec)
		}
	case ModeTables:
		// Records continue as long as the input does not look like a
		// new keyword: a lone slash inside is a region separator
		// (PVTO, VFP tables), a word starting with a letter ends the
		// keyword. The first record may start with anything.
		first := true
		for {
			t, ok := p.peek()
			if !ok {
				return nil
			}
			if !first && !t.slash && !t.quoted && !t.defmark && startsAlpha(t.text) {
				return nil
			}
			rec, err := p.readRecord()
			if err != nil {
				return fmt.Errorf("keyword %s: %w", kw.Name, err)
			}
			kw.Records = append(kw.Records, rec)
			first = false
		}
	}
	return fmt.Errorf("keyword %s: unhandled mode %d", kw.Name, kw.Def.Mode)
}

// readRecord consumes tokens up to and including the next slash.
func (p *parser) readRecord() (Record, error) {
	var rec Record
	for {
		t, ok := p.next()
		if !ok {
			return rec, ErrUnterminatedRecord
		}
		if rec.Line == 0 {
			rec.Line = t.line
		}
		if t.slash {
			return rec, nil
		}
		n := t.repeat
		if n < 1 {
			n = 1
		}
		for j := 0; j < n; j++ {
			rec.Items = append(rec.Items, Item{
				Text:      t.text,
				Quoted:    t.quoted,
				Defaulted: t.defmark,
			})
		}
	}
}

func startsAlpha(s string) bool {
	if s == "" {
		return false
	}
	r := rune(s[0])
	return unicode.IsLetter(r)
}

// ByName returns all occurrences of a keyword, in deck order.
func (d *Deck) ByName(name string) []Keyword {
	var out []Keyword
	for _, kw := range d.Keywords {
		if kw.Name == name {
			out = append(out, kw)
		}
	}
	return out
}

// First returns the first occurrence of a keyword.
func (d *Deck) First(name string) (Keyword, bool) {
	for _, kw := range d.Keywords {
		if kw.Name == name {
			return kw, true
		}
	}
	return Keyword{}, false
}

// Has reports whether the deck contains at least one occurrence.
func (d *Deck) Has(name string) bool {
	_, ok := d.First(name)
	return ok
}
