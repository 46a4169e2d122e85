package channels

// MaxChannelsOfNamedLayout is the largest channel count Named returns a layout for.
const MaxChannelsOfNamedLayout = 8

// Mono returns a single centre channel.
func Mono() Set { return MustFromTypes(Centre) }

// Stereo returns left and right.
func Stereo() Set { return MustFromTypes(Left, Right) }

// LCR returns left, right and centre.
func LCR() Set { return MustFromTypes(Left, Right, Centre) }

// LRS returns left, right and surround.
func LRS() Set { return MustFromTypes(Left, Right, Surround) }

// LCRS returns left, right, centre and surround.
func LCRS() Set { return MustFromTypes(Left, Right, Centre, Surround) }

// Quadraphonic returns left, right, left surround and right surround.
func Quadraphonic() Set { return MustFromTypes(Left, Right, LeftSurround, RightSurround) }

// Create5point0 returns the 5.0 surround layout.
func Create5point0() Set {
	return MustFromTypes(Left, Right, Centre, LeftSurround, RightSurround)
}

// Create5point1 returns the 5.1 surround layout.
func Create5point1() Set {
	return MustFromTypes(Left, Right, Centre, LFE, LeftSurround, RightSurround)
}

// Create6point0 returns 5.0 plus a centre surround.
func Create6point0() Set {
	return MustFromTypes(Left, Right, Centre, LeftSurround, RightSurround, Surround)
}

// Create6point1 returns 5.1 plus a centre surround.
func Create6point1() Set {
	return MustFromTypes(Left, Right, Centre, LFE, LeftSurround, RightSurround, Surround)
}

// Create7point0 returns 5.0 plus rear surrounds.
func Create7point0() Set {
	return MustFromTypes(Left, Right, Centre, LeftSurround, RightSurround, LeftRearSurround, RightRearSurround)
}

// Create7point1 returns 5.1 plus rear surrounds.
func Create7point1() Set {
	return MustFromTypes(Left, Right, Centre, LFE, LeftSurround, RightSurround, LeftRearSurround, RightRearSurround)
}

// Create7point0SDDS returns the SDDS 7.0 layout with left and right centre.
func Create7point0SDDS() Set {
	return MustFromTypes(Left, Right, Centre, LeftSurround, RightSurround, LeftCentre, RightCentre)
}

// Create7point1SDDS returns the SDDS 7.1 layout with left and right centre.
func Create7point1SDDS() Set {
	return MustFromTypes(Left, Right, Centre, LFE, LeftSurround, RightSurround, LeftCentre, RightCentre)
}

// Named returns the canonical named layout with n channels, or Disabled when there is none.
func Named(n int) Set {
	switch n {
	case 1:
		return Mono()
	case 2:
		return Stereo()
	case 3:
		return LCR()
	case 4:
		return Quadraphonic()
	case 5:
		return Create5point0()
	case 6:
		return Create5point1()
	case 7:
		return Create7point0()
	case 8:
		return Create7point1()
	}
	return Disabled()
}

// namedSets drives String; the first match wins.
var namedSets = []struct {
	name string
	set  Set
}{
	{"Mono", Mono()},
	{"Stereo", Stereo()},
	{"LCR", LCR()},
	{"LRS", LRS()},
	{"LCRS", LCRS()},
	{"Quadraphonic", Quadraphonic()},
	{"5.0 Surround", Create5point0()},
	{"5.1 Surround", Create5point1()},
	{"6.0 Surround", Create6point0()},
	{"6.1 Surround", Create6point1()},
	{"7.0 Surround", Create7point0()},
	{"7.1 Surround", Create7point1()},
	{"7.0 SDDS", Create7point0SDDS()},
	{"7.1 SDDS", Create7point1SDDS()},
}
