package types

// ContextUserKey is where the auth middleware stores the caller's identity.
const ContextUserKey = "user"
