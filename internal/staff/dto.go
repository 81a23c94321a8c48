package staff

type CreateUserRequest struct {
	Username    string  `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	Role        string  `json:"role" validate:"required,oneof=admin fisioterapis"`
	NamaLengkap string  `json:"nama_lengkap" validate:"required,max=200"`
	NoTelepon   *string `json:"no_telepon,omitempty" validate:"omitempty,max=30"`
}

type UpdateUserRequest struct {
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Role        *string `json:"role,omitempty" validate:"omitempty,oneof=admin fisioterapis"`
	NamaLengkap *string `json:"nama_lengkap,omitempty" validate:"omitempty,max=200"`
	NoTelepon   *string `json:"no_telepon,omitempty" validate:"omitempty,max=30"`
}

type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}
