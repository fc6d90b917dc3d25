package skiplist

import (
	"reflect"
	"testing"
)

func TestLayerPos(t *testing.T) {
	cases := []struct {
		radix uint8
		index uint64
		want  int
	}{
		{10, 1560, 1},
		{10, 1264, 0},
		{10, 3000, 3},
		{10, 3700, 2},
		{10, 0, 0},
	}
	for _, c := range cases {
		got := LayerPos(c.radix, c.index)
		if got != c.want {
			t.Errorf("LayerPos(%d, %d) = %d, want %d", c.radix, c.index, got, c.want)
		}
	}
}

func TestIterCollect(t *testing.T) {
	cases := []struct {
		name    string
		radix   uint8
		from    uint64
		to      uint64
		byLink  bool
		want    []uint64
	}{
		{"radix0 values", 0, 10, 1, false, []uint64{9, 8, 7, 6, 5, 4, 3, 2}},
		{"radix0 links", 0, 10, 1, true, []uint64{0, 0, 0, 0, 0, 0, 0, 0}},
		{"radix10 values", 10, 23, 5, false, []uint64{20, 10, 9, 8, 7, 6}},
		{"radix10 links", 10, 23, 5, true, []uint64{1, 1, 0, 0, 0, 0}},
		{"radix32 values", 32, 30, 21, false, []uint64{29, 28, 27, 26, 25, 24, 23, 22}},
		{"radix32 links", 32, 30, 21, true, []uint64{0, 0, 0, 0, 0, 0, 0, 0}},
		{"radix2 values", 2, 10, 1, false, []uint64{8, 4, 2}},
		{"radix2 links", 2, 10, 1, true, []uint64{3, 2, 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := New(c.radix, c.from, c.to, c.byLink).Collect()
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestNewPanicsOnInvalidRadix(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for radix 1")
		}
	}()
	New(1, 5, 1, false)
}

func TestNewPanicsOnInvalidRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for toIndex >= fromIndex")
		}
	}()
	New(10, 1, 5, false)
}
