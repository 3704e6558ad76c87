package usecase

// Metrics はusecaseが出す計測イベント。実装は internal/metrics。
type Metrics interface {
	CartMutated(op string)
	CheckoutHandedOff(fallback bool)
	ClipboardFailed()
}

type NopMetrics struct{}

func (NopMetrics) CartMutated(string)     {}
func (NopMetrics) CheckoutHandedOff(bool) {}
func (NopMetrics) ClipboardFailed()       {}
