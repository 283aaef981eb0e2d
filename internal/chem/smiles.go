package chem

import (
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/SAScore/pkg/errors"
)

// ParseSMILES parses a SMILES string into a Molecule.
//
// Supported: the organic subset (B C N O P S F Cl Br I and aromatic
// b c n o p s), bracket atoms with isotope, chirality, hydrogen count, charge
// and atom class, bond symbols - = # $ : / \, branches, ring closures 0-9 and
// %nn, and "." disconnections.  Anything after the first whitespace is treated
// as a title and ignored.  Hydrogen atoms written as [H] are folded into the
// hydrogen count of their heavy neighbour.
//
// Every failure is an *errors.AppError with CodeMoleculeParseFailed.
func ParseSMILES(smiles string) (*Molecule, error) {
	s := strings.TrimSpace(smiles)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return nil, errors.New(errors.CodeMoleculeParseFailed, "empty SMILES")
	}

	p := &smilesParser{
		src:       s,
		prev:      -1,
		openRings: make(map[int]ringOpening),
		pairs:     make(map[[2]int]bool),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}

	atoms, bonds := foldHydrogens(p.atoms, p.bonds)
	assignImplicitHydrogens(atoms, bonds)
	return newMolecule(s, atoms, bonds), nil
}

// MustParseSMILES is ParseSMILES that panics on error.  Tests and fixtures only.
func MustParseSMILES(smiles string) *Molecule {
	m, err := ParseSMILES(smiles)
	if err != nil {
		panic(err)
	}
	return m
}

type ringOpening struct {
	atom int
	bond byte
}

type smilesParser struct {
	src string
	pos int

	atoms []Atom
	bonds []Bond

	prev      int
	pending   byte
	branches  []int
	openRings map[int]ringOpening
	pairs     map[[2]int]bool
}

func (p *smilesParser) errorf(format string, args ...interface{}) error {
	return errors.Newf(errors.CodeMoleculeParseFailed, format, args...).
		WithDetail(fmt.Sprintf("smiles=%q position=%d", p.src, p.pos))
}

func (p *smilesParser) parse() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.errorf("branch opened without a preceding atom")
			}
			if p.pending != 0 {
				return p.errorf("bond symbol before branch")
			}
			p.branches = append(p.branches, p.prev)
			p.pos++

		case c == ')':
			if len(p.branches) == 0 {
				return p.errorf("unbalanced ')'")
			}
			if p.pending != 0 {
				return p.errorf("dangling bond before ')'")
			}
			p.prev = p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			p.pos++

		case strings.IndexByte(`-=#$:/\`, c) >= 0:
			if p.prev < 0 {
				return p.errorf("bond %q without a preceding atom", c)
			}
			if p.pending != 0 {
				return p.errorf("consecutive bond symbols")
			}
			p.pending = c
			p.pos++

		case c == '.':
			if p.pending != 0 {
				return p.errorf("dangling bond before '.'")
			}
			p.prev = -1
			p.pos++

		case c == '%' || (c >= '0' && c <= '9'):
			if err := p.ringClosure(); err != nil {
				return err
			}

		case c == '[':
			atom, err := p.bracketAtom()
			if err != nil {
				return err
			}
			if err := p.addAtom(atom); err != nil {
				return err
			}

		default:
			atom, err := p.organicAtom()
			if err != nil {
				return err
			}
			if err := p.addAtom(atom); err != nil {
				return err
			}
		}
	}

	if p.pending != 0 {
		return p.errorf("dangling bond at end of input")
	}
	if len(p.branches) > 0 {
		return p.errorf("unbalanced '('")
	}
	if len(p.openRings) > 0 {
		open := make([]int, 0, len(p.openRings))
		for n := range p.openRings {
			open = append(open, n)
		}
		sort.Ints(open)
		return p.errorf("unclosed ring bond %d", open[0])
	}
	if len(p.atoms) == 0 {
		return p.errorf("no atoms")
	}
	return nil
}

func (p *smilesParser) addAtom(a Atom) error {
	idx := len(p.atoms)
	p.atoms = append(p.atoms, a)
	if p.prev >= 0 {
		if err := p.addBond(p.prev, idx, p.pending); err != nil {
			return err
		}
	}
	p.pending = 0
	p.prev = idx
	return nil
}

func (p *smilesParser) addBond(a, b int, sym byte) error {
	if a == b {
		return p.errorf("atom bonded to itself")
	}
	key := [2]int{a, b}
	if a > b {
		key = [2]int{b, a}
	}
	if p.pairs[key] {
		return p.errorf("duplicate bond between atoms %d and %d", key[0], key[1])
	}
	p.pairs[key] = true
	p.bonds = append(p.bonds, Bond{
		Begin: a,
		End:   b,
		Order: resolveBondOrder(sym, p.atoms[a], p.atoms[b]),
	})
	return nil
}

func (p *smilesParser) ringClosure() error {
	if p.prev < 0 {
		return p.errorf("ring bond without a preceding atom")
	}

	var num int
	if p.src[p.pos] == '%' {
		if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
			return p.errorf("'%%' must be followed by two digits")
		}
		num = int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
		p.pos += 3
	} else {
		num = int(p.src[p.pos] - '0')
		p.pos++
	}

	open, ok := p.openRings[num]
	if !ok {
		p.openRings[num] = ringOpening{atom: p.prev, bond: p.pending}
		p.pending = 0
		return nil
	}

	sym := p.pending
	if open.bond != 0 && sym != 0 && !compatibleBondSymbols(open.bond, sym) {
		return p.errorf("conflicting bond symbols on ring bond %d", num)
	}
	if sym == 0 {
		sym = open.bond
	}
	delete(p.openRings, num)
	p.pending = 0
	return p.addBond(open.atom, p.prev, sym)
}

func (p *smilesParser) organicAtom() (Atom, error) {
	rest := p.src[p.pos:]
	for _, two := range []string{"Cl", "Br"} {
		if strings.HasPrefix(rest, two) {
			p.pos += 2
			return newAtom(two, false), nil
		}
	}

	c := rest[0]
	switch c {
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I':
		p.pos++
		return newAtom(string(c), false), nil
	case 'b', 'c', 'n', 'o', 'p', 's':
		p.pos++
		return newAtom(strings.ToUpper(string(c)), true), nil
	case '*':
		p.pos++
		return Atom{Element: "*"}, nil
	}
	return Atom{}, p.errorf("unexpected character %q", c)
}

func (p *smilesParser) bracketAtom() (Atom, error) {
	end := strings.IndexByte(p.src[p.pos:], ']')
	if end < 0 {
		return Atom{}, p.errorf("unterminated bracket atom")
	}
	body := p.src[p.pos+1 : p.pos+end]
	a, err := parseBracketBody(body)
	if err != nil {
		return Atom{}, p.errorf("bad bracket atom [%s]: %s", body, err.Error())
	}
	p.pos += end + 1
	return a, nil
}

// parseBracketBody parses the text between '[' and ']':
// isotope? symbol chirality? hcount? charge? class?
func parseBracketBody(body string) (Atom, error) {
	i := 0
	a := Atom{bracket: true}

	for i < len(body) && isDigit(body[i]) {
		a.Isotope = a.Isotope*10 + int(body[i]-'0')
		i++
	}

	if i >= len(body) {
		return a, fmt.Errorf("missing element symbol")
	}
	switch c := body[i]; {
	case c == '*':
		a.Element = "*"
		i++
	case c >= 'a' && c <= 'z':
		sym := ""
		for _, cand := range []string{"se", "as", "te", "b", "c", "n", "o", "p", "s"} {
			if strings.HasPrefix(body[i:], cand) {
				sym = cand
				break
			}
		}
		if sym == "" {
			return a, fmt.Errorf("unknown aromatic symbol at %d", i)
		}
		upper := strings.ToUpper(sym[:1]) + sym[1:]
		a.Element = upper
		a.AtomicNumber = atomicNumbers[upper]
		a.Aromatic = true
		i += len(sym)
	case c >= 'A' && c <= 'Z':
		sym := string(c)
		if i+1 < len(body) && body[i+1] >= 'a' && body[i+1] <= 'z' {
			if _, ok := atomicNumbers[body[i:i+2]]; ok {
				sym = body[i : i+2]
			}
		}
		n, ok := atomicNumbers[sym]
		if !ok {
			return a, fmt.Errorf("unknown element %q", sym)
		}
		a.Element = sym
		a.AtomicNumber = n
		i += len(sym)
	default:
		return a, fmt.Errorf("unexpected %q where element symbol expected", c)
	}

	if i < len(body) && body[i] == '@' {
		i++
		a.Chirality = ChiralCCW
		if i < len(body) && body[i] == '@' {
			a.Chirality = ChiralCW
			i++
		} else {
			for _, class := range []string{"TH", "AL", "SP", "TB", "OH"} {
				if strings.HasPrefix(body[i:], class) {
					i += len(class)
					for i < len(body) && isDigit(body[i]) {
						i++
					}
					break
				}
			}
		}
	}

	if i < len(body) && body[i] == 'H' {
		i++
		a.ExplicitH = 1
		if i < len(body) && isDigit(body[i]) {
			a.ExplicitH = int(body[i] - '0')
			i++
		}
	}

	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		sc := body[i]
		i++
		switch {
		case i < len(body) && isDigit(body[i]):
			mag := 0
			for i < len(body) && isDigit(body[i]) {
				mag = mag*10 + int(body[i]-'0')
				i++
			}
			a.Charge = sign * mag
		default:
			mag := 1
			for i < len(body) && body[i] == sc {
				mag++
				i++
			}
			a.Charge = sign * mag
		}
	}

	if i < len(body) && body[i] == ':' {
		i++
		if i >= len(body) || !isDigit(body[i]) {
			return a, fmt.Errorf("atom class must be numeric")
		}
		for i < len(body) && isDigit(body[i]) {
			a.Class = a.Class*10 + int(body[i]-'0')
			i++
		}
	}

	if i != len(body) {
		return a, fmt.Errorf("unexpected %q at %d", body[i], i)
	}
	return a, nil
}

func newAtom(symbol string, aromatic bool) Atom {
	return Atom{
		Element:      symbol,
		AtomicNumber: atomicNumbers[symbol],
		Aromatic:     aromatic,
	}
}

func resolveBondOrder(sym byte, a, b Atom) BondOrder {
	switch sym {
	case '=':
		return BondDouble
	case '#':
		return BondTriple
	case '$':
		return BondQuadruple
	case ':':
		return BondAromatic
	case '-', '/', '\\':
		return BondSingle
	}
	if a.Aromatic && b.Aromatic {
		return BondAromatic
	}
	return BondSingle
}

func compatibleBondSymbols(a, b byte) bool {
	if a == b {
		return true
	}
	directional := func(c byte) bool { return c == '/' || c == '\\' }
	return directional(a) && directional(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// foldHydrogens removes plain hydrogen atoms that hang off a heavy atom by a
// single bond and adds them to that atom's ExplicitH.
func foldHydrogens(atoms []Atom, bonds []Bond) ([]Atom, []Bond) {
	degree := make([]int, len(atoms))
	for _, b := range bonds {
		degree[b.Begin]++
		degree[b.End]++
	}

	foldable := func(h, heavy int, order BondOrder) bool {
		a := atoms[h]
		return a.AtomicNumber == 1 && a.Isotope == 0 && a.Charge == 0 && a.ExplicitH == 0 &&
			degree[h] == 1 && atoms[heavy].AtomicNumber != 1 && order == BondSingle
	}

	remove := make([]bool, len(atoms))
	for _, b := range bonds {
		if foldable(b.Begin, b.End, b.Order) {
			remove[b.Begin] = true
		}
		if foldable(b.End, b.Begin, b.Order) {
			remove[b.End] = true
		}
	}

	newIndex := make([]int, len(atoms))
	out := make([]Atom, 0, len(atoms))
	for i, a := range atoms {
		if remove[i] {
			newIndex[i] = -1
			continue
		}
		newIndex[i] = len(out)
		out = append(out, a)
	}

	outBonds := make([]Bond, 0, len(bonds))
	for _, b := range bonds {
		bi, ei := newIndex[b.Begin], newIndex[b.End]
		switch {
		case bi < 0:
			out[ei].ExplicitH++
		case ei < 0:
			out[bi].ExplicitH++
		default:
			outBonds = append(outBonds, Bond{Begin: bi, End: ei, Order: b.Order})
		}
	}
	return out, outBonds
}

func assignImplicitHydrogens(atoms []Atom, bonds []Bond) {
	valence := make([]int, len(atoms))
	for _, b := range bonds {
		v := b.Order.valence()
		valence[b.Begin] += v
		valence[b.End] += v
	}
	for i := range atoms {
		a := &atoms[i]
		if a.bracket {
			continue
		}
		a.ImplicitH = implicitHydrogens(a.AtomicNumber, valence[i]+a.ExplicitH, a.Aromatic)
	}
}

//Personal.AI order the ending
