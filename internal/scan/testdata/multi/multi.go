package multi

//adaptergen:factory
type First struct{}

type (
	Unmarked struct{}

	//adaptergen:factory
	Second struct{}
)

//adaptergen:factory
func NewFactory() {}

//adaptergen:factory
var Instance = First{}
