package tracker

import (
	"errors"
	"fmt"
	"math"
)

// lapLarge is the initial value of the column minimums
const lapLarge = 1000000.0

// solveAssignment solves the rectangular assignment problem for the given
// cost matrix.  The matrix is extended to a square of size rows+cols where
// leaving a row or column unassigned costs costLimit/2, so no pair costing
// more than costLimit is ever assigned.  rowsol[i] is the column assigned to
// row i and colsol[j] the row assigned to column j, -1 when unassigned.
func solveAssignment(cost [][]float64, costLimit float64) (rowsol, colsol []int, err error) {

	nRows := len(cost)

	if nRows == 0 {
		return nil, nil, nil
	}

	nCols := len(cost[0])
	rowsol = make([]int, nRows)
	colsol = make([]int, nCols)

	if math.IsInf(costLimit, 1) || math.IsNaN(costLimit) {
		return nil, nil, errors.New("cost limit must be finite")
	}

	n := nRows + nCols
	extended := make([][]float64, n)

	for i := range extended {
		extended[i] = make([]float64, n)

		for j := range extended[i] {
			switch {
			case i < nRows && j < nCols:
				extended[i][j] = cost[i][j]
			case i >= nRows && j >= nCols:
				extended[i][j] = 0
			default:
				extended[i][j] = costLimit / 2
			}
		}
	}

	x, y, err := lapjv(extended)

	if err != nil {
		return nil, nil, fmt.Errorf("lapjv failed: %w", err)
	}

	for i := 0; i < nRows; i++ {
		rowsol[i] = x[i]

		if rowsol[i] >= nCols {
			rowsol[i] = -1
		}
	}

	for j := 0; j < nCols; j++ {
		colsol[j] = y[j]

		if colsol[j] >= nRows {
			colsol[j] = -1
		}
	}

	return rowsol, colsol, nil
}

// lapSolver holds the state of a dense Jonker-Volgenant solve over a square
// cost matrix
type lapSolver struct {
	n    int
	cost [][]float64
	// x[i] is the column assigned to row i, y[j] the row assigned to column j
	x []int
	y []int
	// v are the column prices
	v []float64
	// free lists the rows still unassigned
	free []int
}

// lapjv solves the square linear assignment problem minimising total cost
// using the Jonker-Volgenant algorithm.  x[i] is the column assigned to row i
// and y[j] the row assigned to column j.
func lapjv(cost [][]float64) (x, y []int, err error) {

	n := len(cost)

	s := &lapSolver{
		n:    n,
		cost: cost,
		x:    make([]int, n),
		y:    make([]int, n),
		v:    make([]float64, n),
		free: make([]int, n),
	}

	nFree := s.reduceColumns()

	for pass := 0; nFree > 0 && pass < 2; pass++ {
		nFree = s.augmentRows(nFree)
	}

	if nFree > 0 {
		if err := s.augment(nFree); err != nil {
			return nil, nil, err
		}
	}

	return s.x, s.y, nil
}

// reduceColumns assigns each column to its cheapest row, resolves rows
// claimed more than once and transfers the reduction of uniquely assigned
// rows.  Returns the number of free rows.
func (s *lapSolver) reduceColumns() int {

	n := s.n
	unique := make([]bool, n)

	for i := 0; i < n; i++ {
		s.x[i] = -1
		s.v[i] = lapLarge
		s.y[i] = 0
		unique[i] = true
	}

	for i := 0; i < n; i++ {
		for j, c := range s.cost[i][:n] {
			if c < s.v[j] {
				s.v[j] = c
				s.y[j] = i
			}
		}
	}

	// walk columns last to first so the lowest column wins a shared row
	for j := n - 1; j >= 0; j-- {
		i := s.y[j]

		if s.x[i] < 0 {
			s.x[i] = j
			continue
		}

		unique[i] = false
		s.y[j] = -1
	}

	nFree := 0

	for i := 0; i < n; i++ {

		if s.x[i] < 0 {
			s.free[nFree] = i
			nFree++
			continue
		}

		if !unique[i] {
			continue
		}

		j := s.x[i]
		minVal := lapLarge

		for j2 := 0; j2 < n; j2++ {
			if j2 == j {
				continue
			}

			if c := s.cost[i][j2] - s.v[j2]; c < minVal {
				minVal = c
			}
		}

		s.v[j] -= minVal
	}

	return nFree
}

// augmentRows performs augmenting row reduction over the free rows, returns
// the number of rows left free
func (s *lapSolver) augmentRows(nFree int) int {

	n := s.n
	current := 0
	newFree := 0
	rrCnt := 0

	for current < nFree {

		rrCnt++
		freeI := s.free[current]
		current++

		// find the lowest and second lowest reduced cost of the row
		j1 := 0
		v1 := s.cost[freeI][0] - s.v[0]
		j2 := -1
		v2 := lapLarge

		for j := 1; j < n; j++ {
			c := s.cost[freeI][j] - s.v[j]

			if c >= v2 {
				continue
			}

			if c >= v1 {
				v2, j2 = c, j
			} else {
				v2, j2 = v1, j1
				v1, j1 = c, j
			}
		}

		i0 := s.y[j1]
		v1New := s.v[j1] - (v2 - v1)
		v1Lowers := v1New < s.v[j1]

		switch {
		case rrCnt < current*n:
			if v1Lowers {
				s.v[j1] = v1New
			} else if i0 >= 0 && j2 >= 0 {
				j1 = j2
				i0 = s.y[j2]
			}

			if i0 >= 0 {
				if v1Lowers {
					current--
					s.free[current] = i0
				} else {
					s.free[newFree] = i0
					newFree++
				}
			}

		case i0 >= 0:
			s.free[newFree] = i0
			newFree++
		}

		s.x[freeI] = j1
		s.y[j1] = freeI
	}

	return newFree
}

// augment assigns each remaining free row along a shortest augmenting path
func (s *lapSolver) augment(nFree int) error {

	pred := make([]int, s.n)

	for _, freeI := range s.free[:nFree] {

		j := s.findPath(freeI, pred)

		if j < 0 || j >= s.n {
			return fmt.Errorf("augmenting path from row %d ended at column %d", freeI, j)
		}

		i := -1

		for k := 0; i != freeI; k++ {

			if k >= s.n {
				return fmt.Errorf("augmenting path from row %d does not terminate", freeI)
			}

			i = pred[j]
			s.y[j] = i
			j, s.x[i] = s.x[i], j
		}
	}

	return nil
}

// findPath runs a single iteration of the modified Dijkstra shortest path
// search from row startI, recording predecessors in pred.  Returns the free
// column the path ends at.
func (s *lapSolver) findPath(startI int, pred []int) int {

	n := s.n
	lo := 0
	hi := 0
	finalJ := -1
	nReady := 0
	cols := make([]int, n)
	d := make([]float64, n)

	for j := 0; j < n; j++ {
		cols[j] = j
		pred[j] = startI
		d[j] = s.cost[startI][j] - s.v[j]
	}

	for finalJ == -1 {

		// scan list exhausted, collect the next columns at minimum distance
		if lo == hi {
			nReady = lo
			hi = findMinCols(lo, d, cols)

			for _, j := range cols[lo:hi] {
				if s.y[j] < 0 {
					finalJ = j
				}
			}
		}

		if finalJ == -1 {
			finalJ = s.scan(&lo, &hi, d, cols, pred)
		}
	}

	mind := d[cols[lo]]

	for _, j := range cols[:nReady] {
		s.v[j] += d[j] - mind
	}

	return finalJ
}

// scan relaxes the distances of the unscanned columns cols[hi:] through each
// column on the scan list cols[lo:hi].  Returns a free column reached at
// minimum distance or -1.
func (s *lapSolver) scan(lo, hi *int, d []float64, cols, pred []int) int {

	for *lo != *hi {

		j := cols[*lo]
		*lo++
		i := s.y[j]
		mind := d[j]
		h := s.cost[i][j] - s.v[j] - mind

		for k := *hi; k < s.n; k++ {
			j = cols[k]
			credIJ := s.cost[i][j] - s.v[j] - h

			if credIJ >= d[j] {
				continue
			}

			d[j] = credIJ
			pred[j] = i

			if credIJ == mind {
				if s.y[j] < 0 {
					return j
				}

				cols[k] = cols[*hi]
				cols[*hi] = j
				*hi++
			}
		}
	}

	return -1
}

// findMinCols moves the columns with minimum distance to the front of
// cols[lo:], returns the end of that run
func findMinCols(lo int, d []float64, cols []int) int {

	hi := lo + 1
	mind := d[cols[lo]]

	for k := hi; k < len(cols); k++ {

		j := cols[k]

		if d[j] > mind {
			continue
		}

		if d[j] < mind {
			hi = lo
			mind = d[j]
		}

		cols[k] = cols[hi]
		cols[hi] = j
		hi++
	}

	return hi
}
