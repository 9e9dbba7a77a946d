package deck

// Keyword layout catalogue. This mirrors the keyword configuration of the
// native deck parser for the keywords the extraction layer consumes: item
// names, types and defaults per record, plus how the records of each
// keyword are terminated.

// Mode describes how the records of a keyword are delimited.
type Mode int

const (
	// ModeToggle keywords carry no records (OIL, WATER, METRIC, ...).
	ModeToggle Mode = iota
	// ModeSingle keywords have exactly one slash-terminated record.
	ModeSingle
	// ModeList keywords have records until a lone slash (COMPDAT, ...).
	ModeList
	// ModeTables keywords have one or more slash-terminated table records
	// and no closing lone slash; empty records may occur inside as region
	// separators (SWOF, EQUIL, PVTO, VFPPROD, ...).
	ModeTables
)

// Kind is the value type of a record item.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

// ItemDef describes one named item of a record.
type ItemDef struct {
	Name    string
	Kind    Kind
	Default any // string, int or float64; nil means no default
}

// Def describes one keyword.
type Def struct {
	Name   string
	Mode   Mode
	Items  []ItemDef // layout of ordinary records
	Header []ItemDef // layout of the first record, when it differs (WELSEGS, COMPSEGS)
}

func s(name string, def ...string) ItemDef {
	d := ItemDef{Name: name, Kind: KindString}
	if len(def) > 0 {
		d.Default = def[0]
	}
	return d
}

func i(name string, def ...int) ItemDef {
	d := ItemDef{Name: name, Kind: KindInt}
	if len(def) > 0 {
		d.Default = def[0]
	}
	return d
}

func f(name string, def ...float64) ItemDef {
	d := ItemDef{Name: name, Kind: KindFloat}
	if len(def) > 0 {
		d.Default = def[0]
	}
	return d
}

func toggle(names ...string) []Def {
	defs := make([]Def, len(names))
	for idx, name := range names {
		defs[idx] = Def{Name: name, Mode: ModeToggle}
	}
	return defs
}

// catalogue indexes all supported keywords by name.
var catalogue = buildCatalogue()

func buildCatalogue() map[string]Def {
	defs := []Def{
		// Schedule section bookkeeping
		{Name: "DATES", Mode: ModeList, Items: []ItemDef{
			i("DAY"), s("MONTH"), i("YEAR"), s("TIME", "00:00:00"),
		}},
		{Name: "START", Mode: ModeSingle, Items: []ItemDef{
			i("DAY", 1), s("MONTH", "JAN"), i("YEAR", 1983), s("TIME", "00:00:00"),
		}},
		{Name: "TSTEP", Mode: ModeSingle},
		{Name: "INCLUDE", Mode: ModeSingle, Items: []ItemDef{s("FILENAME")}},

		// Well and connection keywords
		{Name: "WELSPECS", Mode: ModeList, Items: []ItemDef{
			s("WELL"), s("GROUP"), i("HEAD_I"), i("HEAD_J"), f("REF_DEPTH"),
			s("PHASE"), f("DRAINAGE_RADIUS", 0), s("INFLOW_EQUATION", "STD"),
			s("AUTO_SHUT", "SHUT"), s("CROSSFLOW", "YES"), i("PVT_TABLE", 0),
			s("DENSITY_CALC", "SEG"), i("FIP_REGION", 0),
		}},
		{Name: "COMPDAT", Mode: ModeList, Items: []ItemDef{
			s("WELL"), i("I", 0), i("J", 0), i("K1"), i("K2"), s("OP/SH", "OPEN"),
			i("SATN", 0), f("TRAN"), f("WBDIA"), f("KH"), f("SKIN", 0),
			f("DFACT"), s("DIR", "Z"), f("PEQVR"),
		}},
		{Name: "WELOPEN", Mode: ModeList, Items: []ItemDef{
			s("WELL"), s("STATUS", "OPEN"), i("I", 0), i("J", 0), i("K", 0),
			i("C1", 0), i("C2", 0),
		}},
		{Name: "COMPLUMP", Mode: ModeList, Items: []ItemDef{
			s("WELL"), i("I", 0), i("J", 0), i("K1", 0), i("K2", 0), i("N"),
		}},
		{Name: "WLIST", Mode: ModeList, Items: []ItemDef{
			s("NAME"), s("ACTION"), s("WELLS"), s("WELLS2"), s("WELLS3"),
			s("WELLS4"), s("WELLS5"), s("WELLS6"), s("WELLS7"), s("WELLS8"),
		}},
		{Name: "WELSEGS", Mode: ModeList,
			Header: []ItemDef{
				s("WELL"), f("TRUE_VERTICAL_DEPTH"), f("SEGMENT_MD"),
				f("WBVOLUME"), s("INFO_TYPE", "INC"),
				s("PRESSURE_COMPONENTS", "HFA"), s("FLOW_MODEL", "HO"),
				f("TOP_X", 0), f("TOP_Y", 0),
			},
			Items: []ItemDef{
				i("SEGMENT1"), i("SEGMENT2"), i("BRANCH"), i("JOIN_SEGMENT"),
				f("SEGMENT_LENGTH"), f("DEPTH_CHANGE"), f("DIAMETER"),
				f("ROUGHNESS"), f("AREA"), f("VOLUME"),
				f("LENGTH_X", 0), f("LENGTH_Y", 0),
			}},
		{Name: "COMPSEGS", Mode: ModeList,
			Header: []ItemDef{s("WELL")},
			Items: []ItemDef{
				i("I"), i("J"), i("K"), i("BRANCH"),
				f("DISTANCE_START"), f("DISTANCE_END"),
				s("DIRECTION"), i("END_IJK", 0), f("CENTER_DEPTH", 0),
				i("THERMAL_LENGTH", 0), i("SEGMENT_NUMBER", 0),
			}},
		{Name: "WSEGSICD", Mode: ModeList, Items: []ItemDef{
			s("WELL"), i("SEGMENT1"), i("SEGMENT2"), f("STRENGTH"),
			f("LENGTH", 12), f("DENSITY_CALI", 1000.25), f("VISCOSITY_CALI", 1.45),
			f("CRITICAL_VALUE", 0.5), f("WIDTH_TRANS", 0.05),
			f("MAX_VISC_RATIO", 5), i("METHOD_SCALING_FACTOR", -1),
			f("MAX_ABS_RATE"), s("STATUS", "OPEN"),
		}},
		{Name: "WSEGAICD", Mode: ModeList, Items: []ItemDef{
			s("WELL"), i("SEGMENT1"), i("SEGMENT2"), f("STRENGTH"),
			f("DENSITY_CALI", 1000.25), f("VISCOSITY_CALI", 1.45),
			f("CRITICAL_VALUE", 0.5), f("WIDTH_TRANS", 0.05),
			f("MAX_VISC_RATIO", 5), i("METHOD_SCALING_FACTOR", -1),
			f("MAX_ABS_RATE"), f("FLOW_RATE_EXPONENT"), f("VISC_EXPONENT"),
			s("STATUS", "OPEN"), f("A", 1), f("B", 1), f("C", 1),
			f("D", 2.43), f("E", 1.18), f("F", 10),
		}},
		{Name: "WSEGVALV", Mode: ModeList, Items: []ItemDef{
			s("WELL"), i("SEGMENT_NUMBER"), f("CV"), f("AREA"),
			f("EXTRA_LENGTH"), f("PIPE_D"), f("ROUGHNESS"), f("PIPE_A"),
			s("STATUS", "OPEN"), f("MAX_A"),
		}},

		// Well control keywords
		{Name: "WCONPROD", Mode: ModeList, Items: []ItemDef{
			s("WELL"), s("STATUS", "OPEN"), s("CMODE"), f("ORAT", 0),
			f("WRAT", 0), f("GRAT", 0), f("LRAT", 0), f("RESV", 0),
			f("BHP", 1.01325), f("THP", 0), i("VFP_TABLE", 0), f("ALQ", 0),
		}},
		{Name: "WCONHIST", Mode: ModeList, Items: []ItemDef{
			s("WELL"), s("STATUS", "OPEN"), s("CMODE"), f("ORAT", 0),
			f("WRAT", 0), f("GRAT", 0), i("VFP_TABLE", 0), f("ALQ", 0),
			f("THP", 0), f("BHP", 0),
		}},
		{Name: "WCONINJE", Mode: ModeList, Items: []ItemDef{
			s("WELL"), s("TYPE"), s("STATUS", "OPEN"), s("CMODE"),
			f("RATE"), f("RESV"), f("BHP", 6895), f("THP"), i("VFP_TABLE", 0),
			f("VAPOIL_C", 0),
		}},
		{Name: "WCONINJH", Mode: ModeList, Items: []ItemDef{
			s("WELL"), s("TYPE"), s("STATUS", "OPEN"), f("RATE"), f("BHP"),
			f("THP"), i("VFP_TABLE", 0), f("VAPOIL_C", 0),
		}},

		// Group network keywords
		{Name: "GRUPTREE", Mode: ModeList, Items: []ItemDef{
			s("CHILD_GROUP"), s("PARENT_GROUP", "FIELD"),
		}},
		{Name: "BRANPROP", Mode: ModeList, Items: []ItemDef{
			s("DOWNTREE_NODE"), s("UPTREE_NODE"), i("VFP_TABLE", 0), f("ALQ", 0),
		}},
		{Name: "GRUPNET", Mode: ModeList, Items: []ItemDef{
			s("NAME"), f("TERMINAL_PRESSURE"), i("VFP_TABLE", 0), f("ALQ", 0),
			s("SUB_SEA_MANIFOLD", "NO"), s("LIFT_GAS_FLOW_EFFICIENCY", "NO"),
			s("ALQ_SURFACE_DENSITY", "NONE"),
		}},
		{Name: "NODEPROP", Mode: ModeList, Items: []ItemDef{
			s("NAME"), f("PRESSURE"), s("AS_CHOKE", "NO"),
			s("ADD_GAS_LIFT_GAS", "NO"), s("CHOKE_GROUP"),
			s("SOURCE_SINK_GROUP"), s("NETWORK_VALUE_TYPE", "PROD"),
		}},

		// Grid section
		{Name: "FAULTS", Mode: ModeList, Items: []ItemDef{
			s("NAME"), i("IX1"), i("IX2"), i("IY1"), i("IY2"),
			i("IZ1"), i("IZ2"), s("FACE"),
		}},

		// Dimensioning
		{Name: "TABDIMS", Mode: ModeSingle, Items: []ItemDef{
			i("NTSFUN", 1), i("NTPVT", 1), i("NSSFUN", 20), i("NPPVT", 20),
			i("NTFIP", 1), i("NRPVT", 20),
		}},
		{Name: "EQLDIMS", Mode: ModeSingle, Items: []ItemDef{
			i("NTEQUL", 1), i("DEPTH_NODES_P", 100), i("DEPTH_NODES_TAB", 50),
			i("NTTRVD", 1), i("NSTRVD", 20),
		}},
		{Name: "WELLDIMS", Mode: ModeSingle, Items: []ItemDef{
			i("MAXWELLS", 0), i("MAXCONN", 0), i("MAXGROUPS", 0), i("MAX_GROUPSIZE", 0),
		}},

		// Solution section
		{Name: "EQUIL", Mode: ModeTables, Items: []ItemDef{
			f("DATUM_DEPTH", 0), f("DATUM_PRESSURE", 0), f("OWC", 0),
			f("PC_OWC", 0), f("GOC", 0), f("PC_GOC", 0),
			i("BLACK_OIL_INIT", 0), i("BLACK_OIL_INIT_WG", 0), i("OIP_INIT", -5),
		}},

		// Properties section: all pure data-table keywords
		{Name: "SWOF", Mode: ModeTables},
		{Name: "SGOF", Mode: ModeTables},
		{Name: "SWFN", Mode: ModeTables},
		{Name: "SGWFN", Mode: ModeTables},
		{Name: "SOF2", Mode: ModeTables},
		{Name: "SGFN", Mode: ModeTables},
		{Name: "SOF3", Mode: ModeTables},
		{Name: "SLGOF", Mode: ModeTables},
		{Name: "RSVD", Mode: ModeTables},
		{Name: "RVVD", Mode: ModeTables},
		{Name: "PBVD", Mode: ModeTables},
		{Name: "PDVD", Mode: ModeTables},
		{Name: "PVTO", Mode: ModeTables},
		{Name: "PVTG", Mode: ModeTables},
		{Name: "PVDO", Mode: ModeTables},
		{Name: "PVDG", Mode: ModeTables},
		{Name: "PVTW", Mode: ModeTables, Items: []ItemDef{
			f("PRESSURE"), f("VOLUMEFACTOR", 1), f("COMPRESSIBILITY", 4e-5),
			f("VISCOSITY", 0.3), f("VISCOSIBILITY", 0),
		}},
		{Name: "ROCK", Mode: ModeTables, Items: []ItemDef{
			f("PRESSURE"), f("COMPRESSIBILITY"),
		}},
		{Name: "DENSITY", Mode: ModeTables, Items: []ItemDef{
			f("OILDENSITY", 600), f("WATERDENSITY", 999.014), f("GASDENSITY", 1),
		}},

		// Vertical flow performance
		{Name: "VFPPROD", Mode: ModeTables},
		{Name: "VFPINJ", Mode: ModeTables},
	}
	defs = append(defs, toggle(
		"OIL", "WATER", "GAS", "DISGAS", "VAPOIL",
		"METRIC", "FIELD", "LAB", "PVT-M",
		"RUNSPEC", "GRID", "EDIT", "PROPS", "REGIONS",
		"SOLUTION", "SUMMARY", "SCHEDULE", "END", "ENDBOX", "NOECHO", "ECHO",
	)...)

	out := make(map[string]Def, len(defs))
	for _, def := range defs {
		out[def.Name] = def
	}
	return out
}

// Lookup returns the catalogue entry for a keyword name.
func Lookup(name string) (Def, bool) {
	def, ok := catalogue[name]
	return def, ok
}

// Supported reports whether the keyword is in the catalogue.
func Supported(name string) bool {
	_, ok := catalogue[name]
	return ok
}
