package frame

import (
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
)

func mustReadCSV(t *testing.T, text string) dataframe.DataFrame {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(text))
	if df.Err != nil {
		t.Fatalf("read csv: %v", df.Err)
	}
	return df
}
