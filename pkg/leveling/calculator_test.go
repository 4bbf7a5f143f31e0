package leveling

import "testing"

func TestRequiredXP(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 100},
		{1, 155},
		{4, 380},
		{5, 475},
		{10, 1100},
		{30, 6100},
	}
	for _, tt := range tests {
		if got := RequiredXP(tt.level); got != tt.want {
			t.Errorf("RequiredXP(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 0},
		{99, 0},
		{154, 0},
		{155, 1},
		{379, 3},
		{380, 4},
		{425, 4},
		{474, 4},
		{475, 5},
		{1099, 9},
		{1100, 10},
		{6100, 30},
	}
	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %v, want %v", tt.xp, got, tt.want)
		}
	}
}

func TestLevelForXPRanges(t *testing.T) {
	for level := 1; level <= 200; level++ {
		lo, hi := RequiredXP(level), RequiredXP(level+1)
		for _, xp := range []int{lo, (lo + hi) / 2, hi - 1} {
			if got := LevelForXP(xp); got != level {
				t.Fatalf("LevelForXP(%d) = %v, want %v", xp, got, level)
			}
		}
	}
}

func TestLevelRoundTrip(t *testing.T) {
	for xp := RequiredXP(1); xp < 20000; xp += 7 {
		if got := RequiredXP(LevelForXP(xp)); got > xp {
			t.Fatalf("RequiredXP(LevelForXP(%d)) = %v, want <= %v", xp, got, xp)
		}
	}
}

func TestProgress(t *testing.T) {
	p := Progress(1100)
	if p.Level != 10 || p.Into != 0 || p.Span != RequiredXP(11)-1100 {
		t.Errorf("Progress(1100) = %+v", p)
	}
	if p.Bar != "□□□□□□□□□□" {
		t.Errorf("Progress(1100).Bar = %v, want empty bar", p.Bar)
	}

	// level 4 spans 380..475, 95 XP
	p = Progress(428)
	if p.Level != 4 || p.Into != 48 || p.Span != 95 {
		t.Errorf("Progress(428) = %+v", p)
	}
	if p.Percent != 50.5 {
		t.Errorf("Progress(428).Percent = %v, want %v", p.Percent, 50.5)
	}
	if p.Bar != "■■■■■□□□□□" {
		t.Errorf("Progress(428).Bar = %v, want %v", p.Bar, "■■■■■□□□□□")
	}

	if p := Progress(0); p.Into != 0 || p.Percent != 0 {
		t.Errorf("Progress(0) = %+v, want zero progress", p)
	}
}

func TestProgressBarBounds(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{-5, "□□□□□□□□□□"},
		{100, "■■■■■■■■■■"},
		{250, "■■■■■■■■■■"},
		{34, "■■■□□□□□□□"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.percent); got != tt.want {
			t.Errorf("ProgressBar(%v) = %v, want %v", tt.percent, got, tt.want)
		}
	}
}

func TestMilestones(t *testing.T) {
	tests := []struct {
		level    int
		wantRole string
		wantOK   bool
		wantNext string
	}{
		{0, "", false, "Nini Nouveau"},
		{1, "Nini Nouveau", true, "Nini Curieux"},
		{7, "Nini Curieux", true, "Nini Actif"},
		{29, "Nini Confirmé", true, "Nini Légende"},
		{45, "Nini Légende", true, ""},
	}
	for _, tt := range tests {
		m, ok := MilestoneFor(tt.level)
		if ok != tt.wantOK || m.Role != tt.wantRole {
			t.Errorf("MilestoneFor(%d) = %v, %v, want %v, %v", tt.level, m.Role, ok, tt.wantRole, tt.wantOK)
		}
		next, _ := NextMilestone(tt.level)
		if next.Role != tt.wantNext {
			t.Errorf("NextMilestone(%d) = %v, want %v", tt.level, next.Role, tt.wantNext)
		}
	}
}
