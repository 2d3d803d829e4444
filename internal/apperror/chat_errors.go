package apperror

var (
	ErrUserNotFound          = NotFound("user not found")
	ErrSenderNotFound        = NotFound("sender not found")
	ErrReceiverNotFound      = NotFound("receiver not found")
	ErrFriendRequestNotFound = NotFound("friend request not found")
	ErrImageNotFound         = NotFound("image not found")

	ErrNameTaken           = AlreadyExists("name is already taken")
	ErrFriendRequestExists = AlreadyExists("a friend request already exists between these users")
	ErrSelfFriendRequest   = InvalidArg("cannot send a friend request to yourself")
	ErrImageTooLarge       = InvalidArg("image exceeds the maximum upload size")
	ErrUniqueCodeExhausted = New(CodeInternal, "could not allocate a unique user code")
)

func ErrStorage(cause error) error {
	return Internal("storage failure", cause)
}
