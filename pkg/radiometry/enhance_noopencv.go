//go:build !opencv

package radiometry

import(
	"fmt"
)

func newOpenCVEnhancer(clip float64, tiles int) (Enhancer, error) {
	return nil, fmt.Errorf("opencv support not enabled; build with -tags opencv")
}
