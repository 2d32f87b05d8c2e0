package linear

import (
	"math"

	"github.com/YuminosukeSato/tabml/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// pivotTolerance はこれ未満のピボットをほぼ特異とみなす閾値
	pivotTolerance = 1e-10
	// pivotPerturbation はほぼ特異なピボットに加える値
	pivotPerturbation = 1e-8
)

// gaussJordanInverse は部分ピボット選択付きGauss-Jordan消去法で a の逆行列を求める
// n×2n の拡大行列 [a | I] を掃き出し、右半分を返す
// ピボットの絶対値が pivotTolerance 未満の場合は pivotPerturbation を加えて続行し、
// その都度警告を返す
func gaussJordanInverse(op string, a mat.Matrix) (*mat.Dense, []*errors.SingularMatrixWarning) {
	n, _ := a.Dims()
	aug := mat.NewDense(n, 2*n, nil)
	for i := 0; i < n; i++ {
		row := aug.RawRowView(i)
		for j := 0; j < n; j++ {
			row[j] = a.At(i, j)
		}
		row[n+i] = 1
	}

	var warnings []*errors.SingularMatrixWarning
	for col := 0; col < n; col++ {
		// 列内で絶対値最大の行をピボットに選ぶ
		pivotRow := col
		maxAbs := math.Abs(aug.At(col, col))
		for r := col + 1; r < n; r++ {
			if v := math.Abs(aug.At(r, col)); v > maxAbs {
				maxAbs, pivotRow = v, r
			}
		}
		if pivotRow != col {
			swapRows(aug, pivotRow, col)
		}

		pivot := aug.At(col, col)
		if math.Abs(pivot) < pivotTolerance {
			warnings = append(warnings, errors.NewSingularMatrixWarning(op, col, pivot, pivotPerturbation))
			pivot += pivotPerturbation
			aug.Set(col, col, pivot)
		}

		pivotVals := aug.RawRowView(col)
		floats.Scale(1/pivot, pivotVals)

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			row := aug.RawRowView(r)
			if factor := row[col]; factor != 0 {
				floats.AddScaled(row, -factor, pivotVals)
			}
		}
	}

	inv := mat.NewDense(n, n, nil)
	inv.Copy(aug.Slice(0, n, n, 2*n))
	return inv, warnings
}

func swapRows(m *mat.Dense, i, j int) {
	ri, rj := m.RawRowView(i), m.RawRowView(j)
	for k := range ri {
		ri[k], rj[k] = rj[k], ri[k]
	}
}
