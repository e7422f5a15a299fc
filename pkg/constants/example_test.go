package constants_test

import (
	"fmt"

	"github.com/gridlot/mastermatch/pkg/constants"
)

// Example shows the default matching thresholds.
func Example() {
	fmt.Printf("auto-correct >= %.0f, review >= %.0f, suggestions = %d\n",
		constants.DefaultAutoCorrectThreshold,
		constants.DefaultReviewThreshold,
		constants.DefaultMaxSuggestions)

	// Output: auto-correct >= 90, review >= 70, suggestions = 3
}
