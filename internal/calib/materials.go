package calib

import (
	"fmt"
	"sort"
)

// Raman bands of the reference materials in cm^-1 (ASTM E1840).
var bands = map[string][]float64{
	"polystyrene": {620.9, 795.8, 1001.4, 1031.8, 1155.3, 1450.5, 1583.1, 1602.3, 2852.4, 2904.5, 3054.3},
	"cyclohexane": {801.3, 1028.3, 1157.6, 1266.4, 1444.4, 2664.4, 2852.9, 2923.8, 2938.3},
	"paracetamol": {651.6, 797.2, 857.9, 1168.5, 1236.8, 1323.9, 1371.5, 1648.4, 2931.1, 3064.6, 3102.4, 3326.6},
	"naphthalene": {513.8, 763.8, 1021.6, 1147.2, 1382.2, 1464.5, 1576.6, 3056.4},
}

// Materials lists the known reference materials in the order the setup
// dialog offers them.
func Materials() []string {
	return []string{"polystyrene", "cyclohexane", "paracetamol", "naphthalene"}
}

// Bands returns the reference band positions of material, ascending.
func Bands(material string) ([]float64, error) {
	b, ok := bands[material]
	if !ok {
		return nil, fmt.Errorf("%q: %w", material, ErrUnknownMaterial)
	}
	out := append([]float64(nil), b...)
	sort.Float64s(out)
	return out, nil
}
