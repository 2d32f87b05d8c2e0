package errors

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// maxReportedValues は NumericalInstabilityError に載せる値の上限
	maxReportedValues = 10

	// ProbabilityFloor は対数を取る前に確率を切り上げる下限値
	ProbabilityFloor = 1e-10

	// divisionEpsilon 未満の分母は0とみなす
	divisionEpsilon = 1e-10
)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// appendNonFinite は values 中の NaN/Inf を dst に追加する。上限に達したら打ち切る
func appendNonFinite(dst, values []float64) []float64 {
	for _, v := range values {
		if len(dst) >= maxReportedValues {
			break
		}
		if !isFinite(v) {
			dst = append(dst, v)
		}
	}
	return dst
}

// CheckNumericalStability は学習済みパラメータなどに NaN/Inf が含まれていれば
// NumericalInstabilityError を返す
func CheckNumericalStability(operation string, values []float64, iteration int) error {
	if bad := appendNonFinite(nil, values); len(bad) > 0 {
		return NewNumericalInstabilityError(operation, bad, iteration)
	}
	return nil
}

// CheckScalar は損失値など単一の値を検査する
func CheckScalar(operation string, value float64, iteration int) error {
	if !isFinite(value) {
		return NewNumericalInstabilityError(operation, []float64{value}, iteration)
	}
	return nil
}

// CheckMatrix は行列の全要素を検査する
func CheckMatrix(operation string, m mat.Matrix, iteration int) error {
	r, c := m.Dims()
	row := make([]float64, c)
	var bad []float64
	for i := 0; i < r && len(bad) < maxReportedValues; i++ {
		mat.Row(row, i, m)
		bad = appendNonFinite(bad, row)
	}
	if len(bad) > 0 {
		return NewNumericalInstabilityError(operation, bad, iteration)
	}
	return nil
}

// SafeDivide は分母がほぼ0のとき0を返す除算。
// F1スコアや特徴量重要度の正規化など、空のクラスや利得0が普通に起こる箇所で使う
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < divisionEpsilon {
		return 0
	}
	return numerator / denominator
}

// ClippedLog は log(max(p, ProbabilityFloor)) を返す。交差エントロピーの計算用
func ClippedLog(p float64) float64 {
	return math.Log(math.Max(p, ProbabilityFloor))
}
