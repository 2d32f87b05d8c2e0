package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる。再学習時は以前のパラメータを全て置き換える
	Fit(X mat.Matrix, y mat.Vector) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データの各行に対する予測値を返す
	Predict(X mat.Matrix) (*mat.VecDense, error)
}

// Scorer はモデルの評価値を計算するインターフェース
type Scorer interface {
	// Score は回帰ではR²、分類では正解率を返す
	Score(X mat.Matrix, y mat.Vector) (float64, error)
}

// Model は5種類のアルゴリズム全てが満たす共通の契約
type Model interface {
	Fitter
	Predictor
	Scorer
}

// LinearModel は線形モデルのインターフェース
type LinearModel interface {
	Model
	// Weights は学習された重み（係数）を返す
	Weights() []float64
	// Intercept は学習された切片を返す
	Intercept() float64
}
