package xlsx

import "testing"

func TestColumnNameToIndex(t *testing.T) {
	tests := []struct {
		name     string
		expected int
		wantErr  bool
	}{
		{"A", 0, false},
		{"B", 1, false},
		{"Z", 25, false},
		{"AA", 26, false},
		{"AB", 27, false},
		{"AZ", 51, false},
		{"BA", 52, false},
		{"ZZ", 701, false},
		{"AAA", 702, false},
		{"aa", 26, false},
		{"", 0, true},
		{"A1", 0, true},
		{"-", 0, true},
	}

	for _, tt := range tests {
		got, err := columnNameToIndex(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("columnNameToIndex(%q) should fail", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("columnNameToIndex(%q) failed: %v", tt.name, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("columnNameToIndex(%q) = %d, expected %d", tt.name, got, tt.expected)
		}
	}
}

func TestParseCellRef(t *testing.T) {
	tests := []struct {
		ref      string
		col, row int
		wantErr  bool
	}{
		{"A1", 0, 1, false},
		{"C7", 2, 7, false},
		{"AA10", 26, 10, false},
		{"$B$4", 1, 4, false},
		{"M13", 12, 13, false},
		{"", 0, 0, true},
		{"7C", 0, 0, true},
		{"C", 0, 0, true},
		{"12", 0, 0, true},
		{"A0", 0, 0, true},
		{"A1B", 0, 0, true},
	}

	for _, tt := range tests {
		col, row, err := parseCellRef(tt.ref)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseCellRef(%q) should fail", tt.ref)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCellRef(%q) failed: %v", tt.ref, err)
			continue
		}
		if col != tt.col || row != tt.row {
			t.Errorf("parseCellRef(%q) = (%d, %d), expected (%d, %d)", tt.ref, col, row, tt.col, tt.row)
		}
	}
}

func TestColumnCountFromDimension(t *testing.T) {
	tests := []struct {
		ref      string
		expected int
		wantErr  bool
	}{
		{"A1:M13", 13, false},
		{"A1:A1", 1, false},
		{"B2:AA9", 27, false},
		{"C3", 3, false},
		{"A1:", 0, true},
		{"garbage", 0, true},
	}

	for _, tt := range tests {
		got, err := columnCountFromDimension(tt.ref)
		if tt.wantErr {
			if err == nil {
				t.Errorf("columnCountFromDimension(%q) should fail", tt.ref)
			}
			continue
		}
		if err != nil {
			t.Errorf("columnCountFromDimension(%q) failed: %v", tt.ref, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("columnCountFromDimension(%q) = %d, expected %d", tt.ref, got, tt.expected)
		}
	}
}

func TestFormatCodeLooksLikeDate(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"yyyy-mm-dd", true},
		{"h:mm AM/PM", true},
		{"0.00", false},
		{"#,##0", false},
		{`"yes/no";General`, false},
		{"[Red]0.00", false},
		{`[$-409]d-mmm-yy`, true},
		{`0.00" m"`, false},
	}

	for _, tt := range tests {
		if got := formatCodeLooksLikeDate(tt.code); got != tt.expected {
			t.Errorf("formatCodeLooksLikeDate(%q) = %v, expected %v", tt.code, got, tt.expected)
		}
	}
}
