package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sepwatch/conflict-probe/pkg/airspace"
	"github.com/sepwatch/conflict-probe/pkg/conflict"
	"github.com/sepwatch/conflict-probe/pkg/separation"
)

// main implements a one-shot pairwise conflict evaluation for scripting and
// quick checks. It reports:
// - current horizontal and vertical separation
// - the separation standard verdict
// - closed-form time of closest approach
// - the predictive conflict sweep with severity
// - a suggested avoidance heading when a conflict exists
func main() {
	ax := flag.Float64("ax", 0, "First aircraft x position (nm)")
	ay := flag.Float64("ay", 0, "First aircraft y position (nm)")
	aalt := flag.Float64("aalt", 10000, "First aircraft altitude (ft)")
	ahdg := flag.Float64("ahdg", 0, "First aircraft heading (deg)")
	aspd := flag.Float64("aspd", 250, "First aircraft speed (kt)")

	bx := flag.Float64("bx", 0, "Second aircraft x position (nm)")
	by := flag.Float64("by", 0, "Second aircraft y position (nm)")
	balt := flag.Float64("balt", 10000, "Second aircraft altitude (ft)")
	bhdg := flag.Float64("bhdg", 0, "Second aircraft heading (deg)")
	bspd := flag.Float64("bspd", 250, "Second aircraft speed (kt)")

	minH := flag.Float64("min-horizontal", 3.0, "Minimum horizontal separation (nm)")
	minV := flag.Float64("min-vertical", 1000.0, "Minimum vertical separation (ft)")
	lookahead := flag.Float64("lookahead", 300, "Prediction window (seconds)")
	asJSON := flag.Bool("json", false, "Emit the report as JSON")
	flag.Parse()

	a := airspace.NewState(*ax, *ay, *aalt, *ahdg, *aspd)
	b := airspace.NewState(*bx, *by, *balt, *bhdg, *bspd)

	if !airspace.ValidateState(a) {
		log.Fatal("Error: first aircraft state is out of range")
	}
	if !airspace.ValidateState(b) {
		log.Fatal("Error: second aircraft state is out of range")
	}
	if !airspace.ValidateMinima(*minH, *minV) {
		log.Fatal("Error: separation minima are out of range")
	}

	result := separation.Check(a, b, *minH, *minV)
	c := conflict.Detect(a, b, *minH, *minV, *lookahead)

	if *asJSON {
		report := map[string]interface{}{
			"separation": result,
			"conflict":   c,
		}
		if t, ok := separation.TimeToClosestApproach(a, b); ok {
			report["timeToClosestApproach"] = t
		}
		if c.Severity != conflict.SeverityNone {
			heading := conflict.AvoidanceHeading(a, b)
			report["avoidanceHeading"] = heading
			report["resolutionEffective"] = conflict.ResolutionEffective(a, b, heading, *minH, *minV)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
		return
	}

	fmt.Printf("Separation: %.2f nm horizontal, %.0f ft vertical\n", result.Horizontal, result.Vertical)
	if result.Safe {
		fmt.Println("Standard:   maintained")
	} else {
		fmt.Println("Standard:   VIOLATED")
	}

	if t, ok := separation.TimeToClosestApproach(a, b); ok {
		fmt.Printf("Closest approach in %.1f s\n", t)
	} else {
		fmt.Println("No closing geometry, separation is not decreasing")
	}

	if c.Severity == conflict.SeverityNone {
		fmt.Printf("No conflict within %.0f s (minimum distance %.2f nm)\n", *lookahead, c.MinimumDistance)
		return
	}

	fmt.Printf("Conflict:   %s in %.0f s, minimum distance %.2f nm\n",
		c.Severity, c.TimeToConflict, c.MinimumDistance)

	heading := conflict.AvoidanceHeading(a, b)
	fmt.Printf("Advice:     fly heading %03.0f for the first aircraft", heading)
	if conflict.ResolutionEffective(a, b, heading, *minH, *minV) {
		fmt.Println(" (clears the conflict)")
	} else {
		fmt.Println(" (does not fully clear the conflict, coordinate both aircraft)")
	}

	// A violated standard always exits nonzero so scripts can gate on it.
	if !result.Safe || c.Severity == conflict.SeverityCritical {
		os.Exit(1)
	}
}
