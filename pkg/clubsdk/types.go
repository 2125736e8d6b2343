package clubsdk

import "time"

// ============================================================================
// Common
// ============================================================================

// ErrorResponse is the envelope of every failed request.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// SuccessResponse is returned by endpoints with no payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database    string `json:"database"`
	Signer      string `json:"signer"`
	Schema      string `json:"schema,omitempty"`
	RateLimiter string `json:"rateLimiter,omitempty"`
}

// Profile is the free-form member profile shared by applications and members.
type Profile struct {
	StreetAddress             string `json:"streetAddress"`
	City                      string `json:"city"`
	State                     string `json:"state"`
	Zip                       string `json:"zip"`
	ProfessionalQualification string `json:"professionalQualification"`
	Interest                  string `json:"interest"`
	Contribution              string `json:"contribution"`
	Employer                  string `json:"employer"`
	LinkedIn                  string `json:"linkedin"`
}

// ============================================================================
// Applications
// ============================================================================

type ApplicationRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	SponsorEmail string `json:"sponsorEmail"`
	Profile
}

type ApplicationCreatedResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	// DemoVerificationCode is only present when the server exposes codes.
	DemoVerificationCode string `json:"demoVerificationCode,omitempty"`
}

// Application is the public view of an application. It never carries the
// verification code.
type Application struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	ApplicantName  string     `json:"applicantName"`
	ApplicantEmail string     `json:"applicantEmail"`
	SponsorEmail   string     `json:"sponsorEmail"`
	ExpiresAt      time.Time  `json:"expiresAt"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
	RejectedAt     *time.Time `json:"rejectedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	Profile        Profile    `json:"profile"`
}

type ApplicationResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	Status      string       `json:"status"`
	Application *Application `json:"application,omitempty"`
}

type ApplicationListResponse struct {
	Success      bool          `json:"success"`
	Applications []Application `json:"applications"`
}

type VerificationRequest struct {
	Code string `json:"code"`
}

type ApprovalResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	Application Application `json:"application"`
	MemberID    string      `json:"memberId"`
}

// ============================================================================
// Activation and sessions
// ============================================================================

type ActivationResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

type PasswordRequest struct {
	Password string `json:"password"`
}

type MemberLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

// SessionResponse accompanies a Set-Cookie with the signed session.
type SessionResponse struct {
	Success   bool      `json:"success"`
	Subject   string    `json:"subject"`
	Name      string    `json:"name"`
	LoginTime time.Time `json:"loginTime"`
	ExpiresAt time.Time `json:"expiresAt"`
	// MFA is set on admin sessions that passed the one-time code.
	MFA bool `json:"mfa,omitempty"`
}

type MFAEnrollResponse struct {
	Success bool   `json:"success"`
	Secret  string `json:"secret"`
	URL     string `json:"otpauthUrl"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

type MFAVerifyRequest struct {
	Code string `json:"code"`
}

// ============================================================================
// Members
// ============================================================================

// Member is the full record, returned to the member themself and to admins.
type Member struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	Active            bool      `json:"active"`
	Activated         bool      `json:"activated"`
	Profile           Profile   `json:"profile"`
	AvailableAsMentor bool      `json:"availableAsMentor"`
	MentorProfile     string    `json:"mentorProfile"`
	SeekingMentor     bool      `json:"seekingMentor"`
	MenteeProfile     string    `json:"menteeProfile"`
	ApprovalsInWindow int       `json:"approvalsInWindow"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// MemberCard is what members see of each other. Email and LinkedIn are
// null unless contact has been shared.
type MemberCard struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         *string `json:"email"`
	LinkedIn      *string `json:"linkedin"`
	Employer      string  `json:"employer,omitempty"`
	Interest      string  `json:"interest,omitempty"`
	MentorProfile string  `json:"mentorProfile,omitempty"`
	MenteeProfile string  `json:"menteeProfile,omitempty"`
}

type MemberResponse struct {
	Success bool   `json:"success"`
	Member  Member `json:"member"`
}

type MemberListResponse struct {
	Success bool     `json:"success"`
	Members []Member `json:"members"`
}

type DirectoryResponse struct {
	Success bool         `json:"success"`
	Members []MemberCard `json:"members"`
}

// MemberUpdateRequest is a partial edit; omitted fields stay as they are.
type MemberUpdateRequest struct {
	Name              *string  `json:"name,omitempty"`
	Active            *bool    `json:"active,omitempty"`
	Profile           *Profile `json:"profile,omitempty"`
	AvailableAsMentor *bool    `json:"availableAsMentor,omitempty"`
	MentorProfile     *string  `json:"mentorProfile,omitempty"`
	SeekingMentor     *bool    `json:"seekingMentor,omitempty"`
	MenteeProfile     *string  `json:"menteeProfile,omitempty"`
}

type NewMemberRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Profile Profile `json:"profile"`
}

// ============================================================================
// Mentorship
// ============================================================================

type MentorshipRequestBody struct {
	MemberID string `json:"memberId"`
	Role     string `json:"role"`
	Message  string `json:"message,omitempty"`
}

type Mentorship struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	Message       string     `json:"message"`
	RequestedBy   string     `json:"requestedBy"`
	ContactShared bool       `json:"contactShared"`
	Mentor        MemberCard `json:"mentor"`
	Mentee        MemberCard `json:"mentee"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type MentorshipResponse struct {
	Success    bool       `json:"success"`
	Mentorship Mentorship `json:"mentorship"`
}

type MentorshipListResponse struct {
	Success  bool         `json:"success"`
	Requests []Mentorship `json:"requests"`
}

// ============================================================================
// Forum
// ============================================================================

type PostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Post struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	CommentCount int       `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	ParentID   *string   `json:"parentId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Body       string    `json:"body"`
	Depth      int       `json:"depth"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CommentRequest struct {
	Body     string `json:"body"`
	ParentID string `json:"parentId,omitempty"`
}

type PostResponse struct {
	Success bool `json:"success"`
	Post    Post `json:"post"`
}

type PostListResponse struct {
	Success bool   `json:"success"`
	Posts   []Post `json:"posts"`
}

type ThreadResponse struct {
	Success  bool      `json:"success"`
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments"`
}

type CommentResponse struct {
	Success bool    `json:"success"`
	Comment Comment `json:"comment"`
}

// ============================================================================
// Corporate sponsors
// ============================================================================

type SponsorRequest struct {
	Name        string `json:"name"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Spotlight   bool   `json:"spotlight"`
}

type Sponsor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
	Spotlight   bool   `json:"spotlight"`
	Hearts      int    `json:"hearts"`
	// Hearted is set for a signed-in member.
	Hearted bool `json:"hearted"`
}

type SponsorResponse struct {
	Success bool    `json:"success"`
	Sponsor Sponsor `json:"sponsor"`
}

type SponsorListResponse struct {
	Success  bool      `json:"success"`
	Sponsors []Sponsor `json:"sponsors"`
}

// ============================================================================
// Bootstrap
// ============================================================================

type BootstrapRequest struct {
	AdminUsername  string `json:"adminUsername"`
	AdminPassword  string `json:"adminPassword"`
	MemberName     string `json:"memberName"`
	MemberPassword string `json:"memberPassword"`
}

type BootstrapResponse struct {
	Success      bool   `json:"success"`
	AdminID      string `json:"adminId"`
	RootMemberID string `json:"rootMemberId"`
}
