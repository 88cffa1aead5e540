package mocks

// mockgen rules for generating mocks for exported interfaces (reflection mode).
//go:generate sh -c "mockgen -package=ref -destination=$GOPATH/src/$PACKAGE/ref/ref_mock.go $PACKAGE/ref Finalizer"
