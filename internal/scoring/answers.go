package scoring

// Answers holds the ten questionnaire answers. Categorical fields carry the
// literal option text shown to the investor.
type Answers struct {
	Age       int    `json:"age" yaml:"age"`
	Horizon   string `json:"horizon" yaml:"horizon"`
	Income    string `json:"income" yaml:"income"`
	Knowledge string `json:"knowledge" yaml:"knowledge"`
	MaxDrop   string `json:"max_drop" yaml:"max_drop"`
	Reaction  string `json:"reaction" yaml:"reaction"`
	Liquidity string `json:"liquidity" yaml:"liquidity"`
	Goal      string `json:"goal" yaml:"goal"`
	Inflation string `json:"inflation" yaml:"inflation"`
	Digital   string `json:"digital" yaml:"digital"`
}

const (
	MinAge = 18
	MaxAge = 75
)

// Horizon options.
const (
	HorizonUnder3 = "< 3 años"
	Horizon3To5   = "3-5 años"
	Horizon5To10  = "5-10 años"
	HorizonOver10 = "> 10 años"
)

// Income options: share of income set aside for investing.
const (
	IncomeUnder5 = "< 5 %"
	Income5To10  = "5-10 %"
	Income10To20 = "10-20 %"
	IncomeOver20 = "> 20 %"
)

// Knowledge options.
const (
	KnowledgeBeginner     = "Principiante"
	KnowledgeIntermediate = "Intermedio"
	KnowledgeAdvanced     = "Avanzado"
)

// MaxDrop options: largest tolerable loss.
const (
	MaxDrop5      = "5 %"
	MaxDrop10     = "10 %"
	MaxDrop20     = "20 %"
	MaxDrop30     = "30 %"
	MaxDropOver30 = "> 30 %"
)

// Reaction options: what the investor does after a 15% fall.
const (
	ReactionSellAll  = "Vendo todo"
	ReactionSellPart = "Vendo una parte"
	ReactionHold     = "No hago nada"
	ReactionBuyMore  = "Compro más"
)

// Liquidity options: need for cash.
const (
	LiquidityHigh   = "Alta"
	LiquidityMedium = "Media"
	LiquidityLow    = "Baja"
)

// Goal options.
const (
	GoalProtect  = "Proteger capital"
	GoalIncome   = "Ingresos regulares"
	GoalBalanced = "Crecimiento balanceado"
	GoalMax      = "Máximo crecimiento"
)

// Inflation options: concern about inflation.
const (
	InflationNone     = "No me preocupa"
	InflationModerate = "Me preocupa moderadamente"
	InflationHigh     = "Me preocupa mucho"
)

// Digital options: trust in digital platforms.
const (
	DigitalLow    = "Baja"
	DigitalMedium = "Media"
	DigitalHigh   = "Alta"
)

// Conservative returns the answers with the most conservative option in every field.
func Conservative() Answers {
	return Answers{
		Age:       MaxAge,
		Horizon:   HorizonUnder3,
		Income:    IncomeUnder5,
		Knowledge: KnowledgeBeginner,
		MaxDrop:   MaxDrop5,
		Reaction:  ReactionSellAll,
		Liquidity: LiquidityHigh,
		Goal:      GoalProtect,
		Inflation: InflationNone,
		Digital:   DigitalLow,
	}
}

// Aggressive returns the answers with the most aggressive option in every field.
func Aggressive() Answers {
	return Answers{
		Age:       MinAge,
		Horizon:   HorizonOver10,
		Income:    IncomeOver20,
		Knowledge: KnowledgeAdvanced,
		MaxDrop:   MaxDropOver30,
		Reaction:  ReactionBuyMore,
		Liquidity: LiquidityLow,
		Goal:      GoalMax,
		Inflation: InflationHigh,
		Digital:   DigitalHigh,
	}
}
