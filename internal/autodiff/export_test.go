package autodiff

// BackwardVisiting runs the traversal and reports every Variable it pops.
var BackwardVisiting = backward
