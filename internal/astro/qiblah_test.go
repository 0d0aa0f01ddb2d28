package astro

import "testing"

func TestQiblah(t *testing.T) {
	tests := []struct {
		name   string
		coords Coordinates
		want   float64
	}{
		{"new york", Coordinates{40.7128, -74.0059}, 58.4817635},
		{"san francisco", Coordinates{37.7749, -122.4194}, 18.843822245692426},
		{"washington dc", Coordinates{38.9072, -77.0369}, 56.56046821463599},
		{"anchorage", Coordinates{61.2181, -149.9003}, 350.8830761159853},
		{"sydney", Coordinates{-33.8688, 151.2093}, 277.4996044487399},
		{"auckland", Coordinates{-36.8485, 174.7633}, 261.19732640365845},
		{"london", Coordinates{51.5074, -0.1278}, 118.9872189},
		{"paris", Coordinates{48.8566, 2.3522}, 119.16313542183347},
		{"oslo", Coordinates{59.9139, 10.7522}, 139.02785605537514},
		{"islamabad", Coordinates{33.7294, 73.0931}, 255.8816156785436},
		{"tokyo", Coordinates{35.6895, 139.6917}, 293.02072441441163},
		{"jakarta", Coordinates{-6.18233995, 106.84287154}, 295.1442983825265},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Qiblah(tt.coords)
			if !approxEqual(got, tt.want, epsilon) {
				t.Errorf("Qiblah(%v) = %v, want %v", tt.coords, got, tt.want)
			}
		})
	}
}
