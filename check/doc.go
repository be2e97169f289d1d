/*
Package check validates the results reported by MaxSAT solvers on a given instance.

Each result is checked against the problem it was computed on and against the status and
exit code contract solvers follow. Failures are recorded in a Registry that keeps, for each
solver and kind of failure, the first instance that exhibited it, so that a fuzzing campaign
only keeps one reproducer per defect.

	reg := check.NewRegistry()
	cmp := check.Comparator{CrossCheck: true}
	if cmp.Compare(path, runs, reg, formula) {
		// path exhibits a defect not seen before; keep it.
	}
*/
package check
