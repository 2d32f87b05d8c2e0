package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/rs/zerolog"
)

// 警告は処理を止めない。前処理の寛容なパースや逆行列計算の摂動はここを通って
// ログに残り、呼び出し側は必要なら戻り値（Result.Warnings など）でも受け取る。

var (
	warnMu sync.Mutex
	// pkg/log を import すると循環するため、zerolog への出力関数は外から注入される
	zerologWarn  func(w error)
	fallbackWarn = func(w error) {
		log.Printf("tabml-warning: %v\n", w)
	}
)

// SetWarningHandler は zerolog が未設定のときに使う警告ハンドラを差し替える。
// テストでは警告を捨てたり収集したりするのに使う
//
//	errors.SetWarningHandler(func(w error) {})
func SetWarningHandler(handler func(w error)) {
	warnMu.Lock()
	defer warnMu.Unlock()
	fallbackWarn = handler
}

// SetZerologWarnFunc は log.SetProvider から呼ばれる。nil で解除する
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warnMu.Lock()
	defer warnMu.Unlock()
	zerologWarn = warnFunc
}

// Warn は警告を1件報告する
func Warn(w error) {
	warnMu.Lock()
	defer warnMu.Unlock()

	switch {
	case zerologWarn != nil:
		zerologWarn(w)
	case fallbackWarn != nil:
		fallbackWarn(w)
	}
}

// DataConversionWarning は数値列のセルが数値として読めず 0.0 に置き換えた警告
type DataConversionWarning struct {
	Column string
	Value  string
	Reason string
}

func (w *DataConversionWarning) Error() string {
	prefix := ""
	if w.Column != "" {
		prefix = fmt.Sprintf("column %q: ", w.Column)
	}
	return fmt.Sprintf("%svalue %q converted to 0.0: %s", prefix, w.Value, w.Reason)
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (w *DataConversionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("type", "DataConversionWarning").
		Str("column", w.Column).
		Str("value", w.Value).
		Str("reason", w.Reason)
}

// NewDataConversionWarning creates a DataConversionWarning.
func NewDataConversionWarning(column, value, reason string) *DataConversionWarning {
	return &DataConversionWarning{Column: column, Value: value, Reason: reason}
}

// SingularMatrixWarning はガウス・ジョルダン消去でピボットがほぼ0になり、
// 対角成分に Perturbation を足して計算を続けたことを表す
type SingularMatrixWarning struct {
	Op           string
	Row          int
	Pivot        float64
	Perturbation float64
}

func (w *SingularMatrixWarning) Error() string {
	return fmt.Sprintf("%s: near-singular pivot %.3g at row %d, diagonal perturbed by %g",
		w.Op, w.Pivot, w.Row, w.Perturbation)
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (w *SingularMatrixWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("type", "SingularMatrixWarning").
		Str("operation", w.Op).
		Int("row", w.Row).
		Float64("pivot", w.Pivot).
		Float64("perturbation", w.Perturbation)
}

// NewSingularMatrixWarning creates a SingularMatrixWarning.
func NewSingularMatrixWarning(op string, row int, pivot, perturbation float64) *SingularMatrixWarning {
	return &SingularMatrixWarning{Op: op, Row: row, Pivot: pivot, Perturbation: perturbation}
}
