package hostinfo

func SetHostnameFunc(fn func() (string, error)) func() {
	prev := hostnameFunc
	hostnameFunc = fn

	return func() { hostnameFunc = prev }
}
