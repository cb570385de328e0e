package errors

// FSError creates a file system error carrying the offending path.
func FSError(path, message string) *SyncError {
	return New(ErrFileSystem, message).WithDetail("path", path)
}

// FSWrap wraps an I/O error with the offending path.
func FSWrap(err error, path, message string) *SyncError {
	if err == nil {
		return nil
	}
	return Wrap(err, ErrFileSystem, message).WithDetail("path", path)
}

// CharLimitExceeded creates the budget-overflow error with both counts.
func CharLimitExceeded(current, limit uint64) *SyncError {
	return Newf(ErrCharLimit, "character limit exceeded: %d / %d characters", current, limit).
		WithDetail("current", current).
		WithDetail("limit", limit)
}

// AgentNotFound creates the unknown-agent error.
func AgentNotFound(agentID string) *SyncError {
	return Newf(ErrAgentNotFound, "agent not found: %s", agentID).
		WithDetail("agent", agentID)
}
