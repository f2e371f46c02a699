package viewer

import "path/filepath"

const maxLabel = 24

// Label shortens a file name for the legend: the extension is dropped and
// long names keep their first and last twelve characters around a "~".
func Label(name string) string {
	base := stem(name)
	if len(name) > maxLabel && len(base) >= 12 {
		return name[:12] + "~" + base[len(base)-12:]
	}
	return base
}

// stem drops the extension of name.
func stem(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
