package tracker

import (
	"testing"
)

func runLapjvTest(t *testing.T, costMatrix [][]float64, expectedX, expectedY []int) {

	x, y, err := lapjv(costMatrix)

	if err != nil {
		t.Fatalf("lapjv returned an error: %v", err)
	}

	for i := range costMatrix {
		if x[i] != expectedX[i] {
			t.Errorf("Expected x[%d] = %d, but got %d", i, expectedX[i], x[i])
		}
		if y[i] != expectedY[i] {
			t.Errorf("Expected y[%d] = %d, but got %d", i, expectedY[i], y[i])
		}
	}
}

func TestLapjv(t *testing.T) {
	costMatrix1 := [][]float64{
		{4, 1, 3, 2},
		{2, 0, 5, 3},
		{3, 2, 2, 3},
		{2, 3, 3, 2},
	}

	expectedX1 := []int{3, 1, 2, 0}
	expectedY1 := []int{3, 1, 2, 0}

	costMatrix2 := [][]float64{
		{10, 19, 8, 15},
		{10, 18, 7, 17},
		{13, 16, 9, 14},
		{12, 19, 8, 18},
	}

	expectedX2 := []int{3, 0, 1, 2}
	expectedY2 := []int{1, 2, 3, 0}

	t.Run("Test Case 1", func(t *testing.T) {
		runLapjvTest(t, costMatrix1, expectedX1, expectedY1)
	})

	t.Run("Test Case 2", func(t *testing.T) {
		runLapjvTest(t, costMatrix2, expectedX2, expectedY2)
	})
}

func TestSolveAssignment(t *testing.T) {

	rowsol, colsol, err := solveAssignment([][]float64{
		{0.1, 0.9},
		{0.2, 0.3},
	}, 0.7)

	if err != nil {
		t.Fatalf("solveAssignment returned an error: %v", err)
	}

	if rowsol[0] != 0 || rowsol[1] != 1 {
		t.Errorf("Expected rowsol [0 1], got %v", rowsol)
	}

	if colsol[0] != 0 || colsol[1] != 1 {
		t.Errorf("Expected colsol [0 1], got %v", colsol)
	}
}

func TestSolveAssignmentCostLimit(t *testing.T) {

	rowsol, colsol, err := solveAssignment([][]float64{{0.9}}, 0.7)

	if err != nil {
		t.Fatalf("solveAssignment returned an error: %v", err)
	}

	if rowsol[0] != -1 || colsol[0] != -1 {
		t.Errorf("Expected pair above cost limit to stay unassigned, got rowsol=%v colsol=%v",
			rowsol, colsol)
	}
}

func TestSolveAssignmentRectangular(t *testing.T) {

	// three tracks, one detection
	rowsol, colsol, err := solveAssignment([][]float64{
		{0.8},
		{0.1},
		{0.5},
	}, 0.7)

	if err != nil {
		t.Fatalf("solveAssignment returned an error: %v", err)
	}

	if colsol[0] != 1 {
		t.Errorf("Expected detection assigned to row 1, got %d", colsol[0])
	}

	if rowsol[0] != -1 || rowsol[1] != 0 || rowsol[2] != -1 {
		t.Errorf("Expected rowsol [-1 0 -1], got %v", rowsol)
	}
}
