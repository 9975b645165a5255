package logger

import (
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
)

// TestProgressBarRender verifies correct ASCII bar rendering
func TestProgressBarRender(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		width    int
		expected string
	}{
		{
			name:     "empty progress",
			current:  0,
			total:    10,
			width:    10,
			expected: "[          ] 0/10 (0%)",
		},
		{
			name:     "half progress",
			current:  5,
			total:    10,
			width:    10,
			expected: "[=====     ] 5/10 (50%)",
		},
		{
			name:     "full progress",
			current:  10,
			total:    10,
			width:    10,
			expected: "[==========] 10/10 (100%)",
		},
		{
			name:     "first phase of the default catalog",
			current:  215,
			total:    255,
			width:    20,
			expected: "[================    ] 215/255 (84%)",
		},
		{
			name:     "overshoot is clamped",
			current:  12,
			total:    10,
			width:    10,
			expected: "[==========] 12/10 (100%)",
		},
		{
			name:     "zero total",
			current:  0,
			total:    0,
			width:    4,
			expected: "[    ] 0/0 (0%)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := NewProgressBar(tt.total, tt.width, false)
			pb.Update(tt.current)

			if got := pb.Render(); got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// TestProgressBarDefaultWidth verifies invalid widths fall back to 10
func TestProgressBarDefaultWidth(t *testing.T) {
	pb := NewProgressBar(10, 0, false)
	pb.Update(10)

	if got := pb.Render(); got != "[==========] 10/10 (100%)" {
		t.Errorf("Render() = %q", got)
	}
}

// TestProgressBarColors verifies ANSI codes only appear with color enabled
func TestProgressBarColors(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	colored := NewProgressBar(10, 10, true)
	colored.Update(5)
	if !strings.Contains(colored.Render(), "\033[") {
		t.Errorf("Render() with color should contain ANSI codes, got %q", colored.Render())
	}

	plain := NewProgressBar(10, 10, false)
	plain.Update(5)
	if strings.Contains(plain.Render(), "\033[") {
		t.Errorf("Render() without color should not contain ANSI codes, got %q", plain.Render())
	}
}

// TestProgressBarAdd verifies Add accumulates and Percentage follows
func TestProgressBarAdd(t *testing.T) {
	pb := NewProgressBar(255, 10, false)
	pb.Add(215)
	pb.Add(40)

	if pb.Current() != 255 {
		t.Errorf("Current() = %d, want 255", pb.Current())
	}
	if pb.Percentage() != 100 {
		t.Errorf("Percentage() = %d, want 100", pb.Percentage())
	}

	pb.Update(-5)
	if pb.Percentage() != 0 {
		t.Errorf("Percentage() = %d for negative progress, want 0", pb.Percentage())
	}
}

// TestProgressBarConcurrency tests thread-safe concurrent updates
func TestProgressBarConcurrency(t *testing.T) {
	pb := NewProgressBar(100, 10, false)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				pb.Add(1)
				_ = pb.Percentage()
				_ = pb.Render()
			}
		}()
	}

	wg.Wait()

	if pb.Current() != 100 {
		t.Errorf("After concurrent updates, Current() = %d, want 100", pb.Current())
	}
}
