package model

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type RegisterResponse struct {
	Message string `json:"message"`
}

// UploadResult is the body of a successful upload: the server's message and
// the parsed rows it chose to preview.
type UploadResult struct {
	Message string `json:"message"`
	Rows    []Row  `json:"data_preview"`
}

// SelectedFile is the file the user picked, held in memory until uploaded.
type SelectedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f SelectedFile) Size() int { return len(f.Data) }

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
