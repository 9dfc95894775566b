package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/storefront/internal/common"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createAccountRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type updateDetailsRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type updateEmailRequest struct {
	OldEmail string `json:"oldEmail"`
	NewEmail string `json:"newEmail"`
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

type deleteCartItemRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
}

type addAddressRequest struct {
	Address json.RawMessage `json:"address"`
}

// checkSession reports login state without gating; an anonymous visitor is
// a normal answer here, not an error.
func (s *Server) checkSession(c *gin.Context) {
	token, err := c.Cookie(s.config.SessionCookieName)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}

	userID, err := s.sessions.Validate(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"loggedIn": true, "userId": userID})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	userID, token, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect email or password"})
			return
		}
		s.logger.Error(c.Request.Context(), "login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error querying the database"})
		return
	}

	s.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"message": "Logged in successfully", "userId": userID})
}

func (s *Server) createAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	_, token, err := s.auth.Register(c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already in use"})
			return
		}
		s.logger.Error(c.Request.Context(), "account creation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating new user"})
		return
	}

	s.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"message": "Account created successfully"})
}

func (s *Server) logout(c *gin.Context) {
	token, err := c.Cookie(s.config.SessionCookieName)
	if err == nil && token != "" {
		if err := s.auth.Logout(c.Request.Context(), token); err != nil {
			s.logger.Error(c.Request.Context(), "logout failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not log out, please try again"})
			return
		}
	}

	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (s *Server) userDetails(c *gin.Context) {
	user, err := s.auth.Details(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		s.logger.Error(c.Request.Context(), "user details lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error querying the database for user details"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"userDetails": gin.H{
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"email":     user.Email,
	}})
}

func (s *Server) updateUserDetails(c *gin.Context) {
	var req updateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "First name and last name are required"})
		return
	}

	err := s.auth.UpdateProfile(c.Request.Context(), currentUserID(c), req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		s.logger.Error(c.Request.Context(), "user details update failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating user details"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User details updated successfully"})
}

func (s *Server) updateEmail(c *gin.Context) {
	var req updateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email format"})
		return
	}

	err := s.auth.UpdateEmail(c.Request.Context(), currentUserID(c), req.OldEmail, req.NewEmail)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email format"})
		case errors.Is(err, common.ErrorEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"message": "This email is already in use"})
		case errors.Is(err, common.ErrorStaleEmail):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Old email does not match"})
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		default:
			s.logger.Error(c.Request.Context(), "email update failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating email"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email updated successfully"})
}

func (s *Server) updatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Both old and new passwords are required"})
		return
	}

	err := s.auth.UpdatePassword(c.Request.Context(), currentUserID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Both old and new passwords are required"})
		case errors.Is(err, common.ErrorPasswordMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Old password does not match"})
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		default:
			s.logger.Error(c.Request.Context(), "password update failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (s *Server) getCart(c *gin.Context) {
	doc, err := s.cart.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.logger.Error(c.Request.Context(), "cart load failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error querying the database"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": doc.Items})
}

func (s *Server) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Product ID and a positive quantity are required"})
		return
	}

	_, err := s.cart.AddItem(c.Request.Context(), currentUserID(c), req.ProductID, req.Quantity, req.Size)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Product ID and a positive quantity are required"})
			return
		}
		s.logger.Error(c.Request.Context(), "cart update failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating the cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart updated successfully"})
}

func (s *Server) deleteCartItem(c *gin.Context) {
	var req deleteCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Product ID is required"})
		return
	}

	_, err := s.cart.RemoveItem(c.Request.Context(), currentUserID(c), req.ProductID, req.Size)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}
		s.logger.Error(c.Request.Context(), "cart item removal failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating the cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed successfully"})
}

// listAddresses flattens each stored address document into the response
// object alongside its id, matching what the frontend renders.
func (s *Server) listAddresses(c *gin.Context) {
	list, err := s.addresses.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.logger.Error(c.Request.Context(), "address list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error retrieving addresses"})
		return
	}

	addresses := make([]gin.H, 0, len(list))
	for _, a := range list {
		entry := gin.H{}
		if err := json.Unmarshal(a.Fields, &entry); err != nil {
			s.logger.Error(c.Request.Context(), "address parse failed", "error", err, "addressId", a.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error retrieving addresses"})
			return
		}
		entry["address_id"] = a.ID
		addresses = append(addresses, entry)
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

func (s *Server) addAddress(c *gin.Context) {
	var req addAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Address is required"})
		return
	}

	id, err := s.addresses.Add(c.Request.Context(), currentUserID(c), req.Address)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Address is required"})
			return
		}
		s.logger.Error(c.Request.Context(), "address add failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error adding address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address added successfully", "addressId": id})
}

func (s *Server) deleteAddress(c *gin.Context) {
	addressID := c.Param("addressId")
	if addressID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No address ID provided"})
		return
	}

	err := s.addresses.Remove(c.Request.Context(), currentUserID(c), addressID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": "No address ID provided"})
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Address not found or you do not have permission to delete it"})
		default:
			s.logger.Error(c.Request.Context(), "address delete failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting address"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address deleted successfully"})
}
