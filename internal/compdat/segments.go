package compdat

import (
	"time"

	"github.com/equinor/res2df/internal/deck"
)

// applyWelsegs reads a WELSEGS keyword: one header record naming the
// well, then segment records whose SEGMENT1-SEGMENT2 ranges unroll to
// one row per segment.
func (s *state) applyWelsegs(date time.Time, kw deck.Keyword) error {
	if len(kw.Records) == 0 {
		return nil
	}
	head := kw.HeaderFields(kw.Records[0])
	well := head.Str("WELL")
	for _, rec := range kw.Records[1:] {
		if rec.Empty() {
			continue
		}
		f := kw.Fields(rec)
		seg1, err := f.Int("SEGMENT1")
		if err != nil {
			return err
		}
		seg2, err := f.Int("SEGMENT2")
		if err != nil {
			return err
		}
		row, err := itemRow(kw, f)
		if err != nil {
			return err
		}
		for seg := seg1; seg <= seg2; seg++ {
			cells := map[string]any{"DATE": date, "WELL": well}
			for k, v := range row {
				cells[k] = v
			}
			cells["SEGMENT1"] = seg
			cells["SEGMENT2"] = seg
			s.tables.Welsegs.Append(cells)
		}
	}
	return nil
}

// applyCompsegs reads a COMPSEGS keyword: one header record naming the
// well, then one row per connected cell.
func (s *state) applyCompsegs(date time.Time, kw deck.Keyword) error {
	if len(kw.Records) == 0 {
		return nil
	}
	head := kw.HeaderFields(kw.Records[0])
	well := head.Str("WELL")
	for _, rec := range kw.Records[1:] {
		if rec.Empty() {
			continue
		}
		row, err := itemRow(kw, kw.Fields(rec))
		if err != nil {
			return err
		}
		row["DATE"] = date
		row["WELL"] = well
		s.tables.Compsegs.Append(row)
	}
	return nil
}

// applySegmentRange reads WSEGSICD/WSEGAICD records, unrolling the
// SEGMENT1-SEGMENT2 range.
func (s *state) applySegmentRange(date time.Time, kw deck.Keyword) error {
	out := s.tables.Wsegsicd
	if kw.Name == "WSEGAICD" {
		out = s.tables.Wsegaicd
	}
	for _, rec := range kw.Records {
		if rec.Empty() {
			continue
		}
		f := kw.Fields(rec)
		seg1, err := f.Int("SEGMENT1")
		if err != nil {
			return err
		}
		seg2, err := f.Int("SEGMENT2")
		if err != nil {
			return err
		}
		row, err := itemRow(kw, f)
		if err != nil {
			return err
		}
		for seg := seg1; seg <= seg2; seg++ {
			cells := map[string]any{"DATE": date}
			for k, v := range row {
				cells[k] = v
			}
			cells["SEGMENT1"] = seg
			cells["SEGMENT2"] = seg
			out.Append(cells)
		}
	}
	return nil
}

func (s *state) applyWsegvalv(date time.Time, kw deck.Keyword) error {
	for _, rec := range kw.Records {
		if rec.Empty() {
			continue
		}
		row, err := itemRow(kw, kw.Fields(rec))
		if err != nil {
			return err
		}
		row["DATE"] = date
		s.tables.Wsegvalv.Append(row)
	}
	return nil
}

// itemRow converts one record into typed cells named by the keyword's
// item layout.
func itemRow(kw deck.Keyword, f deck.Fields) (map[string]any, error) {
	row := make(map[string]any, len(kw.Def.Items))
	for _, item := range kw.Def.Items {
		switch item.Kind {
		case deck.KindString:
			row[item.Name] = f.Str(item.Name)
		case deck.KindInt:
			v, err := f.Int(item.Name)
			if err != nil {
				return nil, err
			}
			row[item.Name] = v
		case deck.KindFloat:
			v, err := f.Float(item.Name)
			if err != nil {
				return nil, err
			}
			row[item.Name] = v
		}
	}
	return row, nil
}
