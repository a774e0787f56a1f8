package errors

// Category-specific error constructors for planning

// Plan shape errors
func InvalidPlanError(msg string) *Error {
	return Newf(InvalidParameterValue, "invalid logical plan: %s", msg)
}

func InvalidPlanErrorf(format string, args ...interface{}) *Error {
	return Newf(InvalidParameterValue, "invalid logical plan: "+format, args...)
}

func UnknownNodeTypeError(nodeType string) *Error {
	return Newf(WrongObjectType, "unknown plan node type \"%s\"", nodeType).
		WithHint("Valid types are scan, join, project, aggregate, exchange, modify, filter, sort and limit.")
}

// Splitter errors
func OutOfResourcesError(context string) *Error {
	return New(InsufficientResources, "out of resources").
		WithDetailf("Failed while %s.", context)
}

func CloneFailedError(nodeDesc string) *Error {
	return OutOfResourcesError("cloning plan node " + nodeDesc)
}

func SubplanLimitError(limit int) *Error {
	return New(InsufficientResources, "out of resources").
		WithDetailf("Plan split needs more than %d subplans.", limit).
		WithHint("Raise splitter.max_subplans or simplify the query.")
}

func GroupIDExhaustedError(rootGroupID int32) *Error {
	return New(InsufficientResources, "out of resources").
		WithDetailf("Group ids after root %d exceed the int32 range.", rootGroupID).
		WithHint("Start from a smaller root group id.")
}

func StaleParentError(node, parent string) *Error {
	return InternalErrorf("stale parent reference: %s is not a child of %s", node, parent)
}

func SplitNotConvergedError(passes int) *Error {
	return InternalErrorf("plan split did not converge after %d passes", passes)
}

func InvariantViolationError(invariant, details string) *Error {
	return InternalErrorf("subplan invariant violated: %s", invariant).
		WithDetail(details)
}

// Configuration errors
func InvalidConfigurationError(parameter, value string) *Error {
	return Newf(ConfigFileError, "invalid value for parameter \"%s\": \"%s\"", parameter, value)
}

func InvalidParameterValueError(parameter, value, reason string) *Error {
	return Newf(InvalidParameterValue, "invalid value for parameter \"%s\": \"%s\"", parameter, value).
		WithDetail(reason)
}
