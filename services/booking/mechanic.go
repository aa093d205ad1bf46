package booking

// ResolveMechanicID picks the mechanic for a new booking. The policy is
// deliberate and fixed: an explicit selection wins, otherwise the
// service's default mechanic, otherwise the request is rejected.
func ResolveMechanicID(explicit, serviceDefault string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if serviceDefault != "" {
		return serviceDefault, nil
	}
	return "", NewError(CodeMechanicUnavailable, "no mechanic selected and the service has no default mechanic")
}
