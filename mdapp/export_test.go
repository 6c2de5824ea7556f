package mdapp

var WithLWAContext = withLWAContext
