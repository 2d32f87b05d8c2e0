package metrics

import (
	"math"

	"github.com/YuminosukeSato/tabml/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Accuracy は |yTrue - yPred| < 0.5 となる予測の割合を返す
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if math.Abs(yTrue.AtVec(i)-yPred.AtVec(i)) < 0.5 {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// MacroF1 はクラス0とクラス1のF1スコアの単純平均を返す
//
// ラベルは 0.5 を閾値として二値化する。予測も正解も存在しないクラスは
// 分母が0になるためF1を0として扱う
func MacroF1(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MacroF1", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for _, class := range []int{0, 1} {
		var tp, fp, fn float64
		for i := 0; i < n; i++ {
			t := binarize(yTrue.AtVec(i))
			p := binarize(yPred.AtVec(i))
			switch {
			case t == class && p == class:
				tp++
			case t != class && p == class:
				fp++
			case t == class && p != class:
				fn++
			}
		}
		precision := errors.SafeDivide(tp, tp+fp)
		recall := errors.SafeDivide(tp, tp+fn)
		sum += errors.SafeDivide(2*precision*recall, precision+recall)
	}
	return sum / 2, nil
}

func binarize(v float64) int {
	if v < 0.5 {
		return 0
	}
	return 1
}
