package domain

// Symbol is a tradable instrument from the journal's fixed set.
type Symbol string

const (
	SymbolXAUUSD  Symbol = "XAUUSD"
	SymbolEURUSD  Symbol = "EURUSD"
	SymbolGBPUSD  Symbol = "GBPUSD"
	SymbolUSDJPY  Symbol = "USDJPY"
	SymbolAUDUSD  Symbol = "AUDUSD"
	SymbolNZDUSD  Symbol = "NZDUSD"
	SymbolUSDCAD  Symbol = "USDCAD"
	SymbolUSDCHF  Symbol = "USDCHF"
	SymbolEURGBP  Symbol = "EURGBP"
	SymbolEURJPY  Symbol = "EURJPY"
	SymbolGBPJPY  Symbol = "GBPJPY"
	SymbolAUDJPY  Symbol = "AUDJPY"
	SymbolNAS100  Symbol = "NAS100"
	SymbolSPX500  Symbol = "SPX500"
	SymbolUS30    Symbol = "US30"
	SymbolDAX40   Symbol = "DAX40"
	SymbolFTSE100 Symbol = "FTSE100"
	SymbolJP225   Symbol = "JP225"
	SymbolBTCUSD  Symbol = "BTCUSD"
	SymbolETHUSD  Symbol = "ETHUSD"
)

// Symbols lists every valid symbol in display order.
var Symbols = []Symbol{
	// Major FX pairs
	SymbolXAUUSD, SymbolEURUSD, SymbolGBPUSD, SymbolUSDJPY,
	SymbolAUDUSD, SymbolNZDUSD, SymbolUSDCAD, SymbolUSDCHF,
	// Crosses
	SymbolEURGBP, SymbolEURJPY, SymbolGBPJPY, SymbolAUDJPY,
	// Indices
	SymbolNAS100, SymbolSPX500, SymbolUS30, SymbolDAX40, SymbolFTSE100, SymbolJP225,
	// Crypto
	SymbolBTCUSD, SymbolETHUSD,
}

// String returns the string representation of Symbol.
func (s Symbol) String() string {
	return string(s)
}

// IsValid checks if the symbol belongs to the fixed set.
func (s Symbol) IsValid() bool {
	for _, v := range Symbols {
		if s == v {
			return true
		}
	}
	return false
}
